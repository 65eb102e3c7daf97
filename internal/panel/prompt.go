package panel

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// BuildPrompt combines the user's review instruction with the file content in
// a fenced block, tagged with the language resolved from the filename so the
// personas see properly annotated code.
func BuildPrompt(instruction, filename, content string) string {
	var sb strings.Builder
	sb.WriteString(instruction)
	sb.WriteString("\n\nFile to review:\n```")
	sb.WriteString(FenceLang(filename))
	sb.WriteString("\n")
	sb.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("```")
	return sb.String()
}

// FenceLang returns a Markdown fence language tag for the given filename, or
// "" when no lexer matches.
func FenceLang(filename string) string {
	lexer := lexers.Match(filepath.Base(filename))
	if lexer == nil {
		if ext := filepath.Ext(filename); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer == nil {
		return ""
	}
	return fenceTag(lexer)
}

func fenceTag(lexer chroma.Lexer) string {
	cfg := lexer.Config()
	if len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return strings.ToLower(cfg.Name)
}
