package fields

import (
	"github.com/goliatone/go-inquiry/pkg/model"
)

// RegionController stores the pick of an external region selector. An
// incomplete selection is stored as nil.
type RegionController struct {
	question model.Question
	region   *model.Region
}

// NewRegion constructs a region controller.
func NewRegion(q model.Question) Controller {
	return &RegionController{question: q}
}

func (c *RegionController) Question() model.Question { return c.question }
func (c *RegionController) Kind() Kind               { return KindRegion }
func (c *RegionController) Empty() bool              { return c.region == nil }
func (c *RegionController) Reset()                   { c.region = nil }

func (c *RegionController) Value() any {
	if c.region == nil {
		return (*model.Region)(nil)
	}
	clone := *c.region
	return &clone
}

// Region returns the current selection or nil.
func (c *RegionController) Region() *model.Region {
	if c.region == nil {
		return nil
	}
	clone := *c.region
	return &clone
}

func (c *RegionController) Normalize() string {
	if c.region == nil {
		return ""
	}
	return c.region.String()
}

func (c *RegionController) Set(value any) error {
	switch v := value.(type) {
	case nil:
		c.region = nil
	case model.Region:
		c.store(v)
	case *model.Region:
		if v == nil {
			c.region = nil
			return nil
		}
		c.store(*v)
	default:
		return unsupported(c.question, value)
	}
	return nil
}

func (c *RegionController) store(region model.Region) {
	if !region.Complete() {
		c.region = nil
		return
	}
	c.region = &region
}
