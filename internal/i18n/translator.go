package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed translations/*.json
var translationFiles embed.FS

type Language string

const (
	ZhCN Language = "zh-CN"
	EN   Language = "en"
)

func (l Language) String() string {
	return string(l)
}

func ParseLanguage(lang string) (Language, error) {
	switch strings.ToLower(lang) {
	case "zh-cn", "zh":
		return ZhCN, nil
	case "en", "en-us", "en-gb":
		return EN, nil
	default:
		return "", fmt.Errorf("unsupported language: %s", lang)
	}
}

type Translations map[string]string

type Translator struct {
	translations map[Language]Translations
	defaultLang  Language
}

func NewTranslator(defaultLang Language) Translator {
	return Translator{
		translations: make(map[Language]Translations),
		defaultLang:  defaultLang,
	}
}

// LoadTranslations reads the embedded translations/<language>.json files.
func (i *Translator) LoadTranslations() error {
	return fs.WalkDir(translationFiles, "translations", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(name) != ".json" {
			return nil
		}

		raw, err := translationFiles.ReadFile(name)
		if err != nil {
			return err
		}

		var translations Translations
		if err := json.Unmarshal(raw, &translations); err != nil {
			return fmt.Errorf("failed to decode %s: %w", name, err)
		}

		langName := strings.TrimSuffix(path.Base(name), ".json")
		lang, err := ParseLanguage(langName)
		if err != nil {
			return fmt.Errorf("failed to parse language %s: %w", langName, err)
		}

		i.translations[lang] = translations
		return nil
	})
}

func (i *Translator) T(lang Language, key string) string {
	if translations, ok := i.translations[lang]; ok {
		if translation, ok := translations[key]; ok {
			return translation
		}
	}

	// Fallback to default language
	if lang != i.defaultLang {
		if translations, ok := i.translations[i.defaultLang]; ok {
			if translation, ok := translations[key]; ok {
				return translation
			}
		}
	}

	// Return key if no translation found
	return fmt.Sprintf("[missing: %s]", key)
}

func (i *Translator) DefaultLanguage() Language {
	return i.defaultLang
}

func (i *Translator) GetAvailableLanguages() []Language {
	var langs []Language
	for lang := range i.translations {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}
