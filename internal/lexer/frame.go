package lexer

// FrameKind is the kind of an open tag.
type FrameKind uint8

const (
	FrameComment FrameKind = iota + 1
	FrameInsert
	FrameCode
)

// Frame is one entry of the open tag stack.
type Frame struct {
	Kind FrameKind
	Tag  string
	Open int // flat offset of the opening delimiter
}

const (
	tagInsert       = "<%="
	tagEscapeOpen   = "<%%"
	tagCode         = "<%"
	tagEscapeClose  = "%%>"
	tagClose        = "%>"
	tagComment      = "<!--"
	tagCommentClose = "-->"
)

func openerKind(tag string) (FrameKind, bool) {
	switch tag {
	case tagComment:
		return FrameComment, true
	case tagInsert:
		return FrameInsert, true
	case tagCode:
		return FrameCode, true
	}
	return 0, false
}
