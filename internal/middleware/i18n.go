// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/geomarket/internal/utils"
)

func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(utils.ContextKeyLang, parseLanguage(c.GetHeader("Accept-Language"), defaultLang))
		c.Next()
	}
}

// parseLanguage picks the first supported language from an Accept-Language
// header such as "ru-RU,ru;q=0.9,en;q=0.8".
func parseLanguage(header, defaultLang string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.Split(part, ";")[0]))
		base := strings.SplitN(strings.ReplaceAll(tag, "_", "-"), "-", 2)[0]
		switch base {
		case "ru":
			return "ru"
		case "en":
			return "en"
		}
	}
	return defaultLang
}
