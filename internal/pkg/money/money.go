package money

import (
	"strconv"
	"strings"
	"unicode"
)

// Денежные поля на проводе хранятся как отображаемые строки
// ("₹2,000 per quintal", "Rs. 1500"). Parse вытаскивает из такой строки
// числовое значение; формат провода при этом не меняется.

// Parse извлекает число из денежной строки. Возвращает false,
// если распознать число не удалось.
func Parse(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Отрезаем валютные префиксы: символ рупии и варианты "Rs".
	s = strings.TrimPrefix(s, "₹")
	lower := strings.ToLower(s)
	for _, prefix := range []string{"rs.", "rs ", "rs"} {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	s = strings.TrimSpace(s)

	// Числовая часть идёт первой, хвост ("per quintal") отбрасывается.
	var b strings.Builder
	seenDigit := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			seenDigit = true
			b.WriteRune(r)
		case r == ',':
			// Разделители тысяч пропускаем.
		case r == '.':
			b.WriteRune(r)
		case r == '-' && !seenDigit && b.Len() == 0:
			b.WriteRune(r)
		default:
			if seenDigit {
				v, err := strconv.ParseFloat(b.String(), 64)
				return v, err == nil
			}
			return 0, false
		}
	}

	if !seenDigit {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	return v, err == nil
}

// FormatINR форматирует сумму как "₹12,345" (без копеек,
// группировка по три разряда).
func FormatINR(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	whole := strconv.FormatInt(int64(v+0.5), 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("₹")

	n := len(whole)
	for i, c := range whole {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
