package dsl

// MetaBlock returns the statements of the meta section, or nil.
func (t *Template) MetaBlock() *Block {
	for _, s := range t.Entries {
		if s.Meta != nil {
			return s.Meta.Block
		}
	}
	return nil
}

// CompanyBlock returns the statements of the company section, or nil.
func (t *Template) CompanyBlock() *Block {
	for _, s := range t.Entries {
		if s.Company != nil {
			return s.Company.Block
		}
	}
	return nil
}

// StyleBlock returns the statements of the style section, or nil.
func (t *Template) StyleBlock() *Block {
	for _, s := range t.Entries {
		if s.Style != nil {
			return s.Style.Block
		}
	}
	return nil
}

// ContentSections returns the content sections in file order.
func (t *Template) ContentSections() []*ContentSection {
	var out []*ContentSection
	for _, s := range t.Entries {
		if s.Content != nil {
			out = append(out, s.Content)
		}
	}
	return out
}

// Param returns the word following key in the section header.
func (s *ContentSection) Param(key string) (string, bool) {
	return lookupParam(s.Params, key)
}

// Assignments collects the key: value statements of b. Later keys win.
func (b *Block) Assignments() map[string]*Value {
	out := map[string]*Value{}
	if b == nil {
		return out
	}
	for _, st := range b.Statements {
		if st.Assignment != nil {
			out[st.Assignment.Key] = st.Assignment.Value
		}
	}
	return out
}

// Commands returns the commands of b in order.
func (b *Block) Commands() []*Command {
	if b == nil {
		return nil
	}
	var out []*Command
	for _, st := range b.Statements {
		if st.Command != nil {
			out = append(out, st.Command)
		}
	}
	return out
}

// Texts returns the string literals of the command's block. A command
// without a block contributes its string arguments instead, so
// `heading "Scope"` and `heading { "Scope" }` read the same.
func (c *Command) Texts() []string {
	var out []string
	if c.Block == nil {
		for _, a := range c.Args {
			if a.Type == "String" {
				out = append(out, a.Value)
			}
		}
		return out
	}
	for _, st := range c.Block.Statements {
		if st.Text != nil {
			out = append(out, string(st.Text.Value))
		}
	}
	return out
}

// Param returns the argument following key, e.g. Param("align") on
// `paragraph align justify`.
func (c *Command) Param(key string) (string, bool) {
	return lookupParam(c.Args, key)
}

func lookupParam(args []*Lexeme, key string) (string, bool) {
	for i := 0; i+1 < len(args); i++ {
		if args[i].Type == "Ident" && args[i].Value == key {
			return args[i+1].Value, true
		}
	}
	return "", false
}

// Text renders a scalar value.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Word != nil:
		return *v.Word
	}
	return ""
}

// Strings renders an array value, or a scalar as a one-element slice.
func (v *Value) Strings() []string {
	if v == nil {
		return nil
	}
	if v.Array == nil {
		if s := v.Text(); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(v.Array.Values))
	for _, item := range v.Array.Values {
		out = append(out, item.Text())
	}
	return out
}
