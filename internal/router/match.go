package router

import "strings"

// Matcher is a rule predicate over the request.
type Matcher func(req *Request) bool

// Any matches every request.
func Any() Matcher {
	return func(*Request) bool { return true }
}

// Exact matches a message text or callback payload literally.
func Exact(values ...string) Matcher {
	return func(req *Request) bool {
		v := req.Value()
		for _, want := range values {
			if v == want {
				return true
			}
		}
		return false
	}
}

// Prefix matches a message text or callback payload by prefix.
func Prefix(prefix string) Matcher {
	return func(req *Request) bool {
		return strings.HasPrefix(req.Value(), prefix)
	}
}

// Command matches a slash command by name.
func Command(names ...string) Matcher {
	return func(req *Request) bool {
		m := req.Message()
		if m == nil {
			return false
		}
		cmd := m.Command()
		for _, n := range names {
			if cmd == n {
				return true
			}
		}
		return false
	}
}

// HasMedia matches messages carrying a photo or a document.
func HasMedia() Matcher {
	return func(req *Request) bool {
		m := req.Message()
		return m != nil && m.HasMedia()
	}
}

// Not inverts a matcher.
func Not(m Matcher) Matcher {
	return func(req *Request) bool { return !m(req) }
}
