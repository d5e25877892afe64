package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// I18nProvider is the translation surface consumed by the api handlers.
type I18nProvider interface {
	Current() string
	Languages() []string
	IsRTL() bool
	SetLanguage(ctx context.Context, code string) error
	RequestLanguage(acceptHeader string) string
	Translate(key string, params map[string]string) string
	TranslateIn(lang, key string, params map[string]string) string
	FormatNumber(n decimal.Decimal, lang string) string
	FormatCurrency(n decimal.Decimal, lang string) string
}

var _ I18nProvider = (*I18nService)(nil)

// I18nService resolves localized strings from nested per-language
// dictionaries loaded from yaml locale files. The active language is
// persisted through the preference store and drives the text direction
// flag consumed by the view layer.
type I18nService struct {
	logger      *zap.Logger
	prefs       PreferenceStore
	supported   []string
	fallback    string
	currencyKey string

	mu      sync.RWMutex
	current string
	chosen  bool // a durable user choice exists
	dicts   map[string]map[string]any
}

// NewI18nService loads the locale dictionaries and applies the initial
// language precedence: persisted user choice first, then the configured
// default. The browser-reported language is honored per request through
// RequestLanguage when no durable choice exists. Every supported language
// gets a dictionary entry even when its locale file is absent, so lookups
// degrade to the raw key instead of failing.
func NewI18nService(logger *zap.Logger, prefs PreferenceStore, cfg *I18nConfig) (*I18nService, error) {
	svc := &I18nService{
		logger:      logger,
		prefs:       prefs,
		supported:   append([]string(nil), cfg.Languages...),
		fallback:    cfg.DefaultLanguage,
		currencyKey: cfg.CurrencyKey,
		dicts:       make(map[string]map[string]any, len(cfg.Languages)),
	}

	if !svc.isSupported(svc.fallback) {
		return nil, fmt.Errorf("default language %q is not part of supported languages", svc.fallback)
	}

	for _, lang := range svc.supported {
		dict, err := loadLocaleFile(filepath.Join(cfg.LocalesDir, lang+".yml"))
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load locale %q: %w", lang, err)
			}
			logger.Warn("i18n: locale file missing, keys will fall back to themselves", zap.String("language", lang))
			dict = map[string]any{}
		}
		svc.dicts[lang] = dict
	}

	svc.current = svc.fallback
	if prefs != nil {
		saved, err := prefs.LoadLanguage(context.Background())
		if err != nil {
			logger.Warn("i18n: failed to load persisted language", zap.Error(err))
		} else if svc.isSupported(saved) {
			svc.current = saved
			svc.chosen = true
		}
	}
	return svc, nil
}

func loadLocaleFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dict := map[string]any{}
	if err := yaml.Unmarshal(raw, &dict); err != nil {
		return nil, err
	}
	return dict, nil
}

// Current returns the active language code.
func (s *I18nService) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Languages returns the supported language codes, default first.
func (s *I18nService) Languages() []string {
	ordered := []string{s.fallback}
	rest := make([]string, 0, len(s.supported))
	for _, lang := range s.supported {
		if lang != s.fallback {
			rest = append(rest, lang)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

// IsRTL reports whether the active language renders right to left.
func (s *I18nService) IsRTL() bool {
	return s.Current() == "ar"
}

// SetLanguage switches the active language and persists the choice.
func (s *I18nService) SetLanguage(ctx context.Context, code string) error {
	if !s.isSupported(code) {
		return ErrLanguageUnknown
	}
	s.mu.Lock()
	s.current = code
	s.chosen = true
	s.mu.Unlock()

	if s.prefs != nil {
		if err := s.prefs.SaveLanguage(ctx, code); err != nil {
			s.logger.Error("i18n: failed to persist language choice", zap.String("language", code), zap.Error(err))
		}
	}
	return nil
}

// RequestLanguage resolves the language for a single request: an explicit
// durable choice wins, then the caller Accept-Language header when it names
// a supported code, then the configured default.
func (s *I18nService) RequestLanguage(acceptHeader string) string {
	s.mu.RLock()
	chosen, current := s.chosen, s.current
	s.mu.RUnlock()
	if chosen {
		return current
	}
	if match := ParseAcceptLanguage(acceptHeader, s.supported); match != "" {
		return match
	}
	return s.fallback
}

// Translate resolves a dotted key in the active language.
func (s *I18nService) Translate(key string, params map[string]string) string {
	return s.TranslateIn(s.Current(), key, params)
}

// TranslateIn resolves a dotted key path in the given language dictionary.
// When any path segment is missing, or the leaf is not a string, the raw
// key is returned unchanged and a diagnostic is logged. Placeholders of the
// form {{name}} are substituted literally, without recursion or escaping.
func (s *I18nService) TranslateIn(lang, key string, params map[string]string) string {
	s.mu.RLock()
	dict, ok := s.dicts[lang]
	s.mu.RUnlock()
	if !ok {
		dict = map[string]any{}
	}

	leaf, found := resolveKeyPath(dict, key)
	if !found {
		s.logger.Warn("i18n: translation key not found",
			zap.String("key", key),
			zap.String("language", lang),
		)
		return key
	}

	result := leaf
	for name, value := range params {
		result = strings.ReplaceAll(result, "{{"+name+"}}", value)
	}
	return result
}

// resolveKeyPath walks a nested dictionary along the dot separated key and
// returns the string leaf when the full path resolves.
func resolveKeyPath(dict map[string]any, key string) (string, bool) {
	current := any(dict)
	for _, segment := range strings.Split(key, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return "", false
		}
		current, ok = node[segment]
		if !ok {
			return "", false
		}
	}
	leaf, ok := current.(string)
	return leaf, ok
}

// FormatNumber renders a number with the numeral system and separators of
// the given language. Arabic uses Arabic-Indic digits.
func (s *I18nService) FormatNumber(n decimal.Decimal, lang string) string {
	intPart, fracPart := splitDecimal(n)
	if lang == "ar" {
		return toArabicDigits(groupThousands(intPart, "٬"), fracPart, "٫")
	}
	out := groupThousands(intPart, ",")
	if fracPart != "" {
		out += "." + fracPart
	}
	return out
}

// FormatCurrency renders an amount followed by the localized currency unit.
func (s *I18nService) FormatCurrency(n decimal.Decimal, lang string) string {
	return s.FormatNumber(n, lang) + " " + s.TranslateIn(lang, s.currencyKey, nil)
}

func (s *I18nService) isSupported(code string) bool {
	for _, lang := range s.supported {
		if lang == code {
			return true
		}
	}
	return false
}

// splitDecimal breaks a decimal into its sign-carrying integer part and its
// fractional digits without trailing zeros.
func splitDecimal(n decimal.Decimal) (string, string) {
	str := n.String()
	if idx := strings.IndexByte(str, '.'); idx >= 0 {
		return str[:idx], strings.TrimRight(str[idx+1:], "0")
	}
	return str, ""
}

// groupThousands inserts the separator every three digits of the integer part.
func groupThousands(intPart, sep string) string {
	neg := strings.HasPrefix(intPart, "-")
	digits := strings.TrimPrefix(intPart, "-")
	if len(digits) <= 3 {
		if neg {
			return "-" + digits
		}
		return digits
	}
	var sb strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(digits[i : i+3])
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}

// toArabicDigits maps western digits to Arabic-Indic ones and appends the
// fractional part with the Arabic decimal separator.
func toArabicDigits(intPart, fracPart, decSep string) string {
	mapped := mapDigitsToArabic(intPart)
	if fracPart != "" {
		mapped += decSep + mapDigitsToArabic(fracPart)
	}
	return mapped
}

func mapDigitsToArabic(str string) string {
	var sb strings.Builder
	for _, r := range str {
		if r >= '0' && r <= '9' {
			sb.WriteRune(rune(0x0660 + (r - '0')))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ParseAcceptLanguage returns the best supported match of an HTTP
// Accept-Language header, honoring quality weights. It returns an empty
// string when nothing matches.
func ParseAcceptLanguage(header string, available []string) string {
	type tag struct {
		code string
		q    float64
	}
	var tags []tag
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code := part
		q := 1.0
		if idx := strings.IndexByte(part, ';'); idx >= 0 {
			code = strings.TrimSpace(part[:idx])
			if qv, ok := strings.CutPrefix(strings.TrimSpace(part[idx+1:]), "q="); ok {
				if parsed, err := strconv.ParseFloat(qv, 64); err == nil {
					q = parsed
				}
			}
		}
		if base, _, found := strings.Cut(code, "-"); found {
			code = base
		}
		tags = append(tags, tag{code: strings.ToLower(code), q: q})
	}

	sort.SliceStable(tags, func(i, j int) bool { return tags[i].q > tags[j].q })
	for _, t := range tags {
		for _, lang := range available {
			if t.code == lang {
				return lang
			}
		}
	}
	return ""
}
