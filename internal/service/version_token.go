package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"versecraft/internal/langs"
)

// Token strategies. Standard-language versions use a store-assigned uuid;
// the Urdu flow historically carried an externally generated token of the
// form v_<unix-ms>_<random>, which existing clients still parse.
const (
	TokenStrategyStore    = "store"
	TokenStrategyExternal = "external"
)

// NewVersionToken produces a version token for the given language. Unknown
// strategies fall back to the store strategy.
func NewVersionToken(lang langs.Language) string {
	if lang.TokenStrategy == TokenStrategyExternal {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
		return fmt.Sprintf("v_%d_%s", time.Now().UnixMilli(), suffix)
	}
	return uuid.NewString()
}

// DefaultVersionName numbers a version within its chapter's history using
// the language's configured prefix, e.g. "Version 3" or "Draft 3".
func DefaultVersionName(lang langs.Language, historyLen int) string {
	prefix := lang.VersionNamePrefix
	if prefix == "" {
		prefix = "Version"
	}
	return fmt.Sprintf("%s %d", prefix, historyLen+1)
}
