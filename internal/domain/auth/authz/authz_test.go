package authz

import (
	"testing"

	"github.com/pmelnyk/currency-service/internal/domain/auth/model"
	customErrors "github.com/pmelnyk/currency-service/internal/domain/errors"
)

func TestAuthorize_Member(t *testing.T) {
	roles := []model.Role{model.RoleViewer, model.RoleEditor}
	if err := Authorize(roles, model.RoleEditor); err != nil {
		t.Fatalf("expected allowed, got %v", err)
	}
	if err := Authorize(roles, model.RoleViewer); err != nil {
		t.Fatalf("expected allowed, got %v", err)
	}
}

func TestAuthorize_NotMember(t *testing.T) {
	if err := Authorize([]model.Role{model.RoleViewer}, model.RoleEditor); !customErrors.IsPermissionDenied(err) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

// No hierarchy: an account holding only editor is denied viewer routes.
func TestAuthorize_EditorDoesNotImplyViewer(t *testing.T) {
	if err := Authorize([]model.Role{model.RoleEditor}, model.RoleViewer); !customErrors.IsPermissionDenied(err) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestAuthorize_EmptyRoles(t *testing.T) {
	if err := Authorize(nil, model.RoleViewer); !customErrors.IsPermissionDenied(err) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}
