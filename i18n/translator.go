package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "tag").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "too_many_fields":
			msg = "フィールドが多すぎます"
		case "missing_mandatory_field":
			msg = "必須フィールドが不足しています"
		case "unexpected_segment_tag":
			msg = "予期しないセグメントです（期待値: {expected}）"
		case "leaf_conversion":
			msg = "値を変換できません（期待値: {expected}）"
		case "empty_required_repetition":
			msg = "必須の繰り返しが一件もありません（期待値: {expected}）"
		case "invalid_schema":
			msg = "スキーマが不正です"
		case "shape_mismatch":
			msg = "値がスキーマと一致しません"
		case "unknown_message_type":
			msg = "未登録のメッセージ種別です"
		case "uniqueness":
			msg = "値が重複しています（最初の出現: {expected}）"
		case "dependency":
			msg = "依存関係を満たしていません（{expected}）"
		}
	default: // "en"
		switch code {
		case "too_many_fields":
			msg = "too many fields"
		case "missing_mandatory_field":
			msg = "mandatory field missing"
		case "unexpected_segment_tag":
			msg = "unexpected segment, expected {expected}"
		case "leaf_conversion":
			msg = "cannot convert value, expected {expected}"
		case "empty_required_repetition":
			msg = "required repetition has no occurrence, expected {expected}"
		case "invalid_schema":
			msg = "invalid schema"
		case "shape_mismatch":
			msg = "value does not match schema"
		case "unknown_message_type":
			msg = "unknown message type"
		case "uniqueness":
			msg = "duplicate value, first seen at {expected}"
		case "dependency":
			msg = "dependency not satisfied: {expected}"
		}
	}
	if msg == "" {
		return code
	}
	return expand(msg, data)
}

// expand substitutes {key} placeholders; unknown keys are left as "?".
func expand(msg string, data map[string]string) string {
	if !strings.Contains(msg, "{") {
		return msg
	}
	b := &strings.Builder{}
	for {
		i := strings.IndexByte(msg, '{')
		if i < 0 {
			b.WriteString(msg)
			break
		}
		j := strings.IndexByte(msg[i:], '}')
		if j < 0 {
			b.WriteString(msg)
			break
		}
		b.WriteString(msg[:i])
		v, ok := data[msg[i+1:i+j]]
		if !ok || v == "" {
			v = "?"
		}
		b.WriteString(v)
		msg = msg[i+j+1:]
	}
	return b.String()
}

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
