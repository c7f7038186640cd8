package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const spacesPerIndent = 4

// todoHeading is the required first line of todo.md.
const todoHeading = "# Todo List"

var todoItemRe = regexp.MustCompile(`^(\s*)- \[([ x])\] (.+)$`)

// TodoItem is a single entry in the todo list.
type TodoItem struct {
	Index       int // 1-based position in the list
	Completed   bool
	Description string
	// IndentLevel nests items: 0 = root, 1 = four spaces, and so on.
	IndentLevel int
}

// String renders the item for listings and select prompts, with its
// 1-based index.
func (i TodoItem) String() string {
	return fmt.Sprintf("%s%d. [%s] %s", i.indentation(), i.Index, i.checkbox(), i.Description)
}

func (i TodoItem) indentation() string {
	return strings.Repeat(" ", i.IndentLevel*spacesPerIndent)
}

func (i TodoItem) checkbox() string {
	if i.Completed {
		return "x"
	}
	return " "
}

func (i TodoItem) outputFormat() string {
	return fmt.Sprintf("%s- [%s] %s", i.indentation(), i.checkbox(), i.Description)
}

// TodoFile is the parsed todo.md.
type TodoFile struct {
	Items []TodoItem
	Path  string
}

// LoadTodoFile reads todo.md from the notes directory. A missing file
// yields an empty list.
func LoadTodoFile(notesDir string) (*TodoFile, error) {
	path := filepath.Join(notesDir, "todo.md")
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is rooted in the user's notes dir
	if err != nil {
		if os.IsNotExist(err) {
			return &TodoFile{Path: path}, nil
		}
		return nil, fmt.Errorf("reading todo file: %w", err)
	}
	return ParseTodoFile(string(data), path)
}

// ParseTodoFile parses todo.md content. The file must start with the
// "# Todo List" heading and contain only todo items after it.
func ParseTodoFile(content, path string) (*TodoFile, error) {
	file := &TodoFile{Path: path}
	if strings.TrimSpace(content) == "" {
		return file, nil
	}

	lines := strings.Split(content, "\n")
	if strings.TrimSpace(lines[0]) != todoHeading {
		return nil, fmt.Errorf("todo file does not start with %q heading", todoHeading)
	}

	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		matches := todoItemRe.FindStringSubmatch(line)
		if matches == nil {
			return nil, fmt.Errorf("todo file contains invalid content: %q", strings.TrimSpace(line))
		}
		file.Items = append(file.Items, TodoItem{
			Index:       len(file.Items) + 1,
			Completed:   matches[2] == "x",
			Description: matches[3],
			IndentLevel: (len(matches[1]) + spacesPerIndent - 1) / spacesPerIndent,
		})
	}
	return file, nil
}

// Save writes the list back atomically via a temp file and rename.
func (f *TodoFile) Save() error {
	var b strings.Builder
	b.WriteString(todoHeading + "\n")
	for _, item := range f.Items {
		b.WriteString(item.outputFormat())
		b.WriteString("\n")
	}

	tempPath := f.Path + ".tmp"
	if err := os.WriteFile(tempPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing todo temp file: %w", err)
	}
	if err := os.Rename(tempPath, f.Path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("replacing todo file: %w", err)
	}
	return nil
}

// validateIndex checks a user-provided 1-based index.
func (f *TodoFile) validateIndex(index int) error {
	if len(f.Items) == 0 {
		return fmt.Errorf("no todo items found")
	}
	if index < 1 || index > len(f.Items) {
		return fmt.Errorf("invalid index %d, valid range is 1-%d", index, len(f.Items))
	}
	return nil
}

func (f *TodoFile) reindex() {
	for i := range f.Items {
		f.Items[i].Index = i + 1
	}
}

// AddItem inserts a new pending item. atTop puts it first; afterIndex
// (1-based, 0 to ignore) puts it after an existing item; nest indents
// it one level below the item it follows.
func (f *TodoFile) AddItem(description string, atTop bool, afterIndex int, nest bool) error {
	insertAt := len(f.Items)
	if atTop {
		insertAt = 0
	} else if afterIndex > 0 {
		if err := f.validateIndex(afterIndex); err != nil {
			return err
		}
		insertAt = afterIndex
	}

	indent := 0
	if nest && insertAt > 0 {
		indent = f.Items[insertAt-1].IndentLevel + 1
	}

	item := TodoItem{Completed: false, Description: description, IndentLevel: indent}
	f.Items = append(f.Items[:insertAt], append([]TodoItem{item}, f.Items[insertAt:]...)...)
	f.reindex()
	return nil
}

// RemoveItem deletes the item at the 1-based index and returns it.
func (f *TodoFile) RemoveItem(index int) (TodoItem, error) {
	if err := f.validateIndex(index); err != nil {
		return TodoItem{}, err
	}
	removed := f.Items[index-1]
	f.Items = append(f.Items[:index-1], f.Items[index:]...)
	f.reindex()
	return removed, nil
}

// SetCompletion marks the item at the 1-based index.
func (f *TodoFile) SetCompletion(index int, completed bool) error {
	if err := f.validateIndex(index); err != nil {
		return err
	}
	f.Items[index-1].Completed = completed
	return nil
}

// FilteredItems selects items by state. With both flags false all
// items are returned.
func (f *TodoFile) FilteredItems(pending, completed bool) []TodoItem {
	if !pending && !completed {
		return f.Items
	}
	var items []TodoItem
	for _, item := range f.Items {
		if (pending && !item.Completed) || (completed && item.Completed) {
			items = append(items, item)
		}
	}
	return items
}
