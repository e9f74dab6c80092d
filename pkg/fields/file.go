package fields

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-inquiry/pkg/model"
)

// FileController accumulates picked files. It is the only controller with
// history: files are appended incrementally and removed by index.
type FileController struct {
	question model.Question
	files    []model.FileRef
}

// NewFile constructs a file controller.
func NewFile(q model.Question) Controller {
	return &FileController{question: q}
}

func (c *FileController) Question() model.Question { return c.question }
func (c *FileController) Kind() Kind               { return KindFiles }
func (c *FileController) Empty() bool              { return len(c.files) == 0 }
func (c *FileController) Reset()                   { c.files = nil }

func (c *FileController) Value() any {
	return append([]model.FileRef(nil), c.files...)
}

// Files returns a copy of the accumulated files.
func (c *FileController) Files() []model.FileRef {
	return append([]model.FileRef(nil), c.files...)
}

// Append adds files to the end of the list. Entries without a name are ignored.
func (c *FileController) Append(files ...model.FileRef) {
	for _, file := range files {
		if strings.TrimSpace(file.Name) == "" {
			continue
		}
		c.files = append(c.files, file)
	}
}

// Remove drops the file at index.
func (c *FileController) Remove(index int) error {
	if index < 0 || index >= len(c.files) {
		return fmt.Errorf("%w: %d (have %d)", ErrFileIndex, index, len(c.files))
	}
	c.files = append(c.files[:index], c.files[index+1:]...)
	return nil
}

// Normalize joins the file names in selection order.
func (c *FileController) Normalize() string {
	names := make([]string, 0, len(c.files))
	for _, file := range c.files {
		names = append(names, file.Name)
	}
	return strings.Join(names, AnswerSeparator)
}

// Set replaces the file list. A single FileRef or a list of names is also
// accepted.
func (c *FileController) Set(value any) error {
	c.files = nil
	switch v := value.(type) {
	case nil:
	case model.FileRef:
		c.Append(v)
	case []model.FileRef:
		c.Append(v...)
	case []string:
		for _, name := range v {
			c.Append(model.FileRef{Name: name})
		}
	default:
		return unsupported(c.question, value)
	}
	return nil
}
