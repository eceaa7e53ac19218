package completion

// IsAccessExpressionOrQualifiedName reports whether node is a property
// access, element access or qualified name, ie. the user already typed a
// path and the host's member completion owns the position.
func IsAccessExpressionOrQualifiedName(node Node) bool {
	if node == nil {
		return false
	}

	switch node.Kind() {
	case PropertyAccessExpressionKind, ElementAccessExpressionKind, QualifiedNameKind:
		return true
	default:
		return false
	}
}

// ShouldRun reports whether enum member completions apply to token.
func ShouldRun(token Node) bool {
	return rejectReason(token) == ""
}

// rejectReason returns why token is not eligible, or an empty string.
// Only syntax is inspected.
func rejectReason(token Node) string {
	if token == nil {
		return "no token at position"
	} else if token.Kind() != IdentifierKind {
		return "token is " + token.Kind().String()
	} else if IsAccessExpressionOrQualifiedName(token.Parent()) {
		return "token is part of " + token.Parent().Kind().String()
	}
	return ""
}
