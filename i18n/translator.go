package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "min" or "got").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. The English
// dictionary renders the engine's native wording with data substituted; the
// Japanese dictionary keeps short fixed strings.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	if t.lang == "ja" {
		return jaMessage(code)
	}
	return enMessage(code, data)
}

func enMessage(code string, data map[string]string) string {
	get := func(k string) string {
		if data == nil {
			return ""
		}
		return data[k]
	}
	switch code {
	case "invalid_type":
		if c := get("conv"); c != "" {
			return "Cannot convert " + c
		}
		if exp := get("expected"); exp != "" {
			msg := "Expected "
			if get("exact") == "true" {
				msg += "exactly "
			}
			msg += exp
			if got := get("got"); got != "" {
				msg += ", got " + got
			}
			return msg
		}
		return "invalid type"
	case "required":
		return "Field required"
	case "unknown_key":
		return "Extra inputs are not permitted"
	case "duplicate_key":
		if k := get("key"); k != "" {
			return "Duplicate key " + quote(k)
		}
		return "duplicate key"
	case "too_small":
		op := ">="
		if get("exclusive") == "true" {
			op = ">"
		}
		return "Value must be " + op + " " + get("bound") + ", got " + get("got")
	case "too_big":
		op := "<="
		if get("exclusive") == "true" {
			op = "<"
		}
		return "Value must be " + op + " " + get("bound") + ", got " + get("got")
	case "not_multiple":
		return "Value must be a multiple of " + get("multiple") + ", got " + get("got")
	case "not_finite":
		return "Value must be finite"
	case "too_short":
		return "Length must be >= " + get("min") + ", got " + get("got")
	case "too_long":
		return "Length must be <= " + get("max") + ", got " + get("got")
	case "pattern":
		if p := get("pattern"); p != "" {
			return "String does not match pattern " + quote(p)
		}
		return "string does not match pattern"
	case "invalid_enum":
		if a := get("allowed"); a != "" {
			return "Value must be one of: " + a
		}
		return "value not allowed"
	case "invalid_format":
		return "Invalid " + get("format") + " format"
	case "starts_with":
		return "String must start with " + quote(get("prefix"))
	case "ends_with":
		return "String must end with " + quote(get("suffix"))
	case "contains":
		return "String must contain " + quote(get("substr"))
	case "overflow":
		return "Integer out of 64-bit range"
	case "parse_error":
		if d := get("detail"); d != "" {
			return d
		}
		return "parse error"
	case "truncated":
		return "input exceeds size limit"
	}
	return code
}

func jaMessage(code string) string {
	switch code {
	case "invalid_type":
		return "型が不正です"
	case "required":
		return "必須プロパティが不足しています"
	case "unknown_key":
		return "未知のキーです"
	case "duplicate_key":
		return "キーが重複しています"
	case "too_small":
		return "値が小さすぎます"
	case "too_big":
		return "値が大きすぎます"
	case "too_short":
		return "短すぎます"
	case "too_long":
		return "長すぎます"
	case "not_multiple":
		return "指定の倍数ではありません"
	case "not_finite":
		return "有限の値ではありません"
	case "pattern":
		return "パターンに一致しません"
	case "invalid_enum":
		return "許可された値ではありません"
	case "invalid_format":
		return "形式が不正です"
	case "starts_with":
		return "指定の接頭辞で始まっていません"
	case "ends_with":
		return "指定の接尾辞で終わっていません"
	case "contains":
		return "指定の部分文字列を含んでいません"
	case "overflow":
		return "整数が範囲外です"
	case "parse_error":
		return "解析エラー"
	case "truncated":
		return "打ち切られました"
	}
	return code
}

func quote(s string) string { return "\"" + s + "\"" }

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
