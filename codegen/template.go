package codegen

// Expand performs the second DFA-driven scan spec.md §4.F describes: a
// two-state byte scanner (copying literal text, or accumulating a
// %PLACEHOLDER% name) over a fixed template. Unlike splex's spec-file
// scanner, the placeholder set here is closed and owned entirely by this
// package, so an unrecognized "%...%" run is not a user error — it is
// copied through verbatim, same as any other literal byte.
func Expand(template []byte, ctx *Context) []byte {
	out := make([]byte, 0, len(template)*2)
	i := 0
	for i < len(template) {
		if template[i] != '%' {
			out = append(out, template[i])
			i++
			continue
		}
		name, end, ok := scanPlaceholderName(template, i)
		if !ok {
			out = append(out, template[i])
			i++
			continue
		}
		replacement, known := ctx.substitution(name)
		if !known {
			out = append(out, template[i])
			i++
			continue
		}
		out = append(out, replacement...)
		i = end
	}
	return out
}

// scanPlaceholderName attempts to read a "%NAME%" token starting at
// template[start] (which must be '%'). NAME is one or more uppercase
// letters or underscores. end is the index just past the closing '%'.
func scanPlaceholderName(template []byte, start int) (name string, end int, ok bool) {
	j := start + 1
	nameStart := j
	for j < len(template) && isPlaceholderChar(template[j]) {
		j++
	}
	if j == nameStart || j >= len(template) || template[j] != '%' {
		return "", 0, false
	}
	return string(template[nameStart:j]), j + 1, true
}

func isPlaceholderChar(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z')
}

// substitution resolves one placeholder name to its replacement text.
func (c *Context) substitution(name string) (string, bool) {
	switch name {
	case "HEADER":
		return string(c.Header), true
	case "TOP":
		return string(c.Top), true
	case "PREFIX":
		return c.prefix(), true
	case "FASTATES":
		return RenderStateRows(c.Tables), true
	case "FATRANS":
		return RenderTransRows(c.Tables), true
	case "FASTARTS":
		return RenderStartIDs(c.Tables), true
	case "START_STATE_DEFS":
		return RenderStateDefs(c.Tables), true
	case "ACTIONS":
		return RenderActions(c.Actions), true
	case "UDECL":
		return RenderUDecl(c.UstateType), true
	case "UARG":
		return RenderUArg(c.UstateType), true
	case "UPARAM":
		return RenderUParam(c.UstateType), true
	default:
		return "", false
	}
}
