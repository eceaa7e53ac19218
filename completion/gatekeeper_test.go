package completion

import "testing"

func TestShouldRun(t *testing.T) {
	root := &mockNode{kind: SourceFileKind}
	access := &mockNode{kind: PropertyAccessExpressionKind, parent: root}
	element := &mockNode{kind: ElementAccessExpressionKind, parent: root}
	qualified := &mockNode{kind: QualifiedNameKind, parent: root}

	tests := []struct {
		name     string
		token    Node
		expected bool
	}{
		{"no token", nil, false},
		{"string literal", &mockNode{kind: StringLiteralKind, text: `"Red"`, parent: root}, false},
		{"punctuation", &mockNode{kind: PunctuationKind, text: ".", parent: root}, false},
		{"private identifier", &mockNode{kind: PrivateIdentifierKind, text: "#Red", parent: root}, false},
		{"property access", identifier(access, "Red", 6), false},
		{"element access", identifier(element, "Red", 6), false},
		{"qualified name", identifier(qualified, "Red", 6), false},
		{"bare identifier", identifier(root, "Red", 0), true},
		{"identifier without parent", identifier(nil, "Red", 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRun(tt.token); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRejectReason(t *testing.T) {
	access := &mockNode{kind: PropertyAccessExpressionKind}

	if reason := rejectReason(nil); reason != "no token at position" {
		t.Errorf("Expected %q, got %q", "no token at position", reason)
	}

	if reason := rejectReason(identifier(access, "Red", 0)); reason != "token is part of PropertyAccessExpression" {
		t.Errorf("Expected %q, got %q", "token is part of PropertyAccessExpression", reason)
	}

	if reason := rejectReason(identifier(nil, "Red", 0)); reason != "" {
		t.Errorf("Expected no reason, got %q", reason)
	}
}

func TestIsAccessExpressionOrQualifiedName(t *testing.T) {
	for kind, expected := range map[SyntaxKind]bool{
		PropertyAccessExpressionKind: true,
		ElementAccessExpressionKind:  true,
		QualifiedNameKind:            true,
		BlockKind:                    false,
		SourceFileKind:               false,
		IdentifierKind:               false,
	} {
		if got := IsAccessExpressionOrQualifiedName(&mockNode{kind: kind}); got != expected {
			t.Errorf("%s: Expected %v, got %v", kind, expected, got)
		}
	}

	if IsAccessExpressionOrQualifiedName(nil) {
		t.Error("Expected nil node to not be an access expression")
	}
}
