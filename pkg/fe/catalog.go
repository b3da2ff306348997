package fe

// Catalog holds the fonts of the most recent enumeration
type Catalog struct {
	fonts []Font
}

// Clear empties the catalog.
func (c *Catalog) Clear() {
	c.fonts = nil
}

// ReplaceWith clears the catalog and appends a copy of fonts.
func (c *Catalog) ReplaceWith(fonts []Font) {
	c.Clear()
	c.fonts = append(make([]Font, 0, len(fonts)), fonts...)
}

func (c *Catalog) Len() int {
	return len(c.fonts)
}

// At returns the font at index i. It panics if i is out of range.
func (c *Catalog) At(i int) Font {
	return c.fonts[i]
}

// Fonts returns a copy of the catalog contents.
func (c *Catalog) Fonts() []Font {
	return append([]Font(nil), c.fonts...)
}
