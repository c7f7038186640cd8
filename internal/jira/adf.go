package jira

import (
	"fmt"
	"strings"
)

// Document is an Atlassian Document Format body.
type Document struct {
	Type    string `json:"type"`
	Version int    `json:"version"`
	Content []Node `json:"content"`
}

// Node is one ADF node. ADF is a closed tree format, so a single
// struct with a type tag covers every node kind we render.
type Node struct {
	Type    string         `json:"type"`
	Text    string         `json:"text"`
	Marks   []Mark         `json:"marks"`
	Content []Node         `json:"content"`
	Attrs   map[string]any `json:"attrs"`
}

// Mark is inline formatting applied to a text node.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs"`
}

// ToMarkdown renders the document as GitHub-flavored markdown.
func (d Document) ToMarkdown() string {
	return markdownFromNodes(d.Content)
}

// PlainText strips the document down to its text content.
func (d Document) PlainText() string {
	var b strings.Builder
	plainTextFromNodes(&b, d.Content)
	return b.String()
}

func plainTextFromNodes(b *strings.Builder, nodes []Node) {
	for _, node := range nodes {
		switch node.Type {
		case "text":
			b.WriteString(node.Text)
		case "hardBreak":
			b.WriteString("\n")
		case "paragraph", "blockquote", "codeBlock":
			plainTextFromNodes(b, node.Content)
			b.WriteString("\n")
		default:
			plainTextFromNodes(b, node.Content)
		}
	}
}

func (n Node) attrString(key string) string {
	value, ok := n.Attrs[key].(string)
	if !ok {
		return ""
	}
	return value
}

func (n Node) attrInt(key string) int {
	// JSON numbers decode as float64.
	value, ok := n.Attrs[key].(float64)
	if !ok {
		return 0
	}
	return int(value)
}

func markdownFromNodes(nodes []Node) string {
	var b strings.Builder
	for _, node := range nodes {
		writeNodeMarkdown(&b, node)
	}
	return b.String()
}

func writeNodeMarkdown(b *strings.Builder, node Node) {
	switch node.Type {
	case "text":
		b.WriteString(applyTextMarks(node.Text, node.Marks))
	case "hardBreak":
		b.WriteString("\n")
	case "paragraph":
		b.WriteString(markdownFromNodes(node.Content))
		b.WriteString("\n")
	case "heading":
		level := node.attrInt("level")
		if level < 1 {
			level = 1
		}
		b.WriteString(strings.Repeat("#", level) + " ")
		b.WriteString(markdownFromNodes(node.Content))
		b.WriteString("\n")
	case "blockquote":
		b.WriteString(strings.TrimRight(prefixLines(markdownFromNodes(node.Content), "> "), " \n"))
		b.WriteString("\n\n")
	case "codeBlock":
		if language := node.attrString("language"); language != "" {
			b.WriteString("```" + language + "\n")
		} else {
			b.WriteString("```\n")
		}
		for _, child := range node.Content {
			if child.Type == "text" {
				b.WriteString(child.Text)
			}
		}
		b.WriteString("\n```\n")
	case "orderedList":
		for index, item := range node.Content {
			if item.Type != "listItem" {
				continue
			}
			prefix := fmt.Sprintf("%d. ", index+1)
			writeListItem(b, prefix, item.Content)
		}
	case "bulletList":
		for _, item := range node.Content {
			if item.Type != "listItem" {
				continue
			}
			writeListItem(b, "- ", item.Content)
		}
	case "taskList":
		for _, item := range node.Content {
			if item.Type != "taskItem" {
				continue
			}
			prefix := "- [ ] "
			if item.attrString("state") == "DONE" {
				prefix = "- [x] "
			}
			writeListItem(b, prefix, item.Content)
		}
	case "decisionList":
		for _, item := range node.Content {
			if item.Type != "decisionItem" {
				continue
			}
			writeListItem(b, "✓ ", item.Content)
		}
	case "table":
		b.WriteString(tableMarkdown(node.Content))
		b.WriteString("\n")
	case "panel":
		b.WriteString(fmt.Sprintf("> [!%s]\n", panelAlertType(node.attrString("panelType"))))
		b.WriteString(strings.TrimRight(prefixLines(markdownFromNodes(node.Content), "> "), " \n"))
		b.WriteString("\n\n")
	case "expand":
		title := node.attrString("title")
		fmt.Fprintf(b, "⬐--- %s ---⬎\n", title)
		b.WriteString(markdownFromNodes(node.Content))
		fmt.Fprintf(b, "⬑--- %s ---⬏\n", title)
	case "nestedExpand", "mediaGroup", "mediaSingle", "bodiedExtension":
		b.WriteString(markdownFromNodes(node.Content))
	case "mention":
		if text := node.attrString("text"); text != "" {
			b.WriteString(text)
		} else {
			b.WriteString("@" + node.attrString("id"))
		}
	case "emoji":
		if text := node.attrString("text"); text != "" {
			b.WriteString(text)
		} else {
			b.WriteString(node.attrString("shortName"))
		}
	case "date":
		b.WriteString(node.attrString("timestamp"))
	case "status":
		b.WriteString(node.attrString("text"))
	case "rule":
		b.WriteString("---\n")
	case "inlineCard":
		if url := node.attrString("url"); url != "" {
			fmt.Fprintf(b, "[%s](%s)", url, url)
		}
	case "blockCard":
		b.WriteString(node.attrString("url"))
		b.WriteString("\n")
	case "embedCard":
		b.WriteString(node.attrString("url"))
		b.WriteString("\n")
	case "media":
		if alt := node.attrString("alt"); alt != "" {
			url := node.attrString("url")
			if url == "" {
				url = node.attrString("collection")
			}
			fmt.Fprintf(b, "![%s](%s)", alt, url)
		}
	case "extension", "inlineExtension":
		b.WriteString(node.attrString("text"))
	case "listItem", "taskItem", "decisionItem", "tableRow", "tableCell", "tableHeader":
		// Only meaningful inside their list or table parents.
	default:
		// Unknown node kinds are dropped.
	}
}

func writeListItem(b *strings.Builder, prefix string, content []Node) {
	itemText := prefixLines(markdownFromNodes(content), strings.Repeat(" ", len([]rune(prefix))))
	b.WriteString(prefix)
	b.WriteString(strings.TrimSpace(itemText))
	b.WriteString("\n")
}

func panelAlertType(panelType string) string {
	switch panelType {
	case "tip":
		return "TIP"
	case "warning":
		return "WARNING"
	case "error":
		return "CAUTION"
	case "success":
		return "IMPORTANT"
	default:
		return "NOTE"
	}
}

func prefixLines(content, prefix string) string {
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func applyTextMarks(text string, marks []Mark) string {
	formatted := text
	for _, mark := range marks {
		switch mark.Type {
		case "strong":
			formatted = "**" + formatted + "**"
		case "em":
			formatted = "*" + formatted + "*"
		case "code":
			formatted = "`" + formatted + "`"
		case "strike":
			formatted = "~~" + formatted + "~~"
		case "underline":
			formatted = "<u>" + formatted + "</u>"
		case "link":
			if href, ok := mark.Attrs["href"].(string); ok {
				formatted = fmt.Sprintf("[%s](%s)", formatted, href)
			}
		case "textColor":
			if color, ok := mark.Attrs["color"].(string); ok {
				formatted = fmt.Sprintf("<span style=%q>%s</span>", "color: "+color, formatted)
			}
		}
	}
	return formatted
}

func cellContent(cell Node) (string, bool) {
	if cell.Type != "tableCell" && cell.Type != "tableHeader" {
		return "", false
	}
	return strings.TrimSpace(markdownFromNodes(cell.Content)), true
}

func tableMarkdown(rows []Node) string {
	if len(rows) == 0 {
		return ""
	}

	var lines []string
	first := rows[0]
	if first.Type == "tableRow" {
		var cells []string
		hasHeaders := false
		for _, cell := range first.Content {
			text, ok := cellContent(cell)
			if !ok {
				continue
			}
			cells = append(cells, text)
			if cell.Type == "tableHeader" {
				hasHeaders = true
			}
		}

		if len(cells) > 0 {
			separators := make([]string, len(cells))
			for i := range separators {
				separators[i] = "---"
			}

			if hasHeaders {
				lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
				lines = append(lines, "| "+strings.Join(separators, " | ")+" |")
			} else {
				blanks := make([]string, len(cells))
				for i := range blanks {
					blanks[i] = "   "
				}
				lines = append(lines, "| "+strings.Join(blanks, " | ")+" |")
				lines = append(lines, "| "+strings.Join(separators, " | ")+" |")
				lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
			}
		}
	}

	for _, row := range rows[1:] {
		if row.Type != "tableRow" {
			continue
		}
		var cells []string
		for _, cell := range row.Content {
			if text, ok := cellContent(cell); ok {
				cells = append(cells, text)
			}
		}
		if len(cells) > 0 {
			lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
		}
	}

	return strings.Join(lines, "\n")
}
