package export

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

var markdownConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

func exportMarkdown(markup string, name string) (*Result, error) {
	var md string
	if strings.TrimSpace(markup) != "" {
		var err error
		md, err = markdownConverter.ConvertString(markup)
		if err != nil {
			return nil, fmt.Errorf("convert markdown: %w", err)
		}
	}
	if md != "" && !strings.HasSuffix(md, "\n") {
		md += "\n"
	}

	return &Result{
		Data:     []byte(md),
		Filename: name + ".md",
		MimeType: "text/markdown; charset=utf-8",
	}, nil
}
