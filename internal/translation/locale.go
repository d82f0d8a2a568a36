package translation

import (
	"strings"

	"golang.org/x/text/language"
)

// googleLanguages lists the base language codes the Google endpoint accepts.
var googleLanguages = map[string]bool{}

func init() {
	codes := `af am ar az be bg bn bs ca ceb co cs cy da de el en eo es et eu fa fi fr fy ga gd gl gu
ha haw he hi hmn hr ht hu hy id ig is it ja jv ka kk km kn ko ku ky la lb lo lt lv mg mi mk ml mn mr
ms mt my ne nl no ny or pa pl ps pt ro ru rw sd si sk sl sm sn so sq sr st su sv sw ta te tg th tk tl
tr tt ug uk ur uz vi xh yi yo zh zu`
	for _, c := range strings.Fields(codes) {
		googleLanguages[c] = true
	}
}

// TargetCode maps a catalog locale such as "pt_BR" or "zh_TW" to the code the
// translation endpoint expects. It reports false for locales that do not
// parse or are not supported.
func TargetCode(locale string) (string, bool) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return "", false
	}
	// Strip a POSIX codeset or modifier: "de_DE.UTF-8@euro".
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}

	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil || tag == language.Und {
		return "", false
	}

	base, _ := tag.Base()
	code := base.String()
	if !googleLanguages[code] {
		return "", false
	}

	if code == "zh" {
		region, _ := tag.Region()
		script, _ := tag.Script()
		if script.String() == "Hant" || region.String() == "TW" || region.String() == "HK" {
			return "zh-TW", true
		}
		return "zh-CN", true
	}
	return code, true
}
