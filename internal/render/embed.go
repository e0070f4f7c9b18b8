package render

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var srcAttrPattern = regexp.MustCompile(`src="([^"]+)"`)

// EmbedImages inlines the local image references of an HTML document as
// base64 data URIs, resolving paths against dir. Remote and already
// inlined sources stay untouched; unreadable files are left in place
// with a warning.
func EmbedImages(html, dir string) string {
	return srcAttrPattern.ReplaceAllStringFunc(html, func(attr string) string {
		src := srcAttrPattern.FindStringSubmatch(attr)[1]
		if strings.HasPrefix(src, "http://") ||
			strings.HasPrefix(src, "https://") ||
			strings.HasPrefix(src, "data:") {
			return attr
		}
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(src)))
		if err != nil {
			slog.Warn("cannot embed image", "src", src, "error", err)
			return attr
		}
		mimeType := mime.TypeByExtension(filepath.Ext(src))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		return fmt.Sprintf(`src="data:%s;base64,%s"`,
			mimeType, base64.StdEncoding.EncodeToString(data))
	})
}
