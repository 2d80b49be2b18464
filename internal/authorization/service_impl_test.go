package authorization

import (
	"context"
	"errors"
	"testing"

	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) *ServiceImpl {
	t.Helper()
	enforcer, err := NewEnforcer()
	if err != nil {
		t.Fatalf("new enforcer: %v", err)
	}
	return &ServiceImpl{log: zap.NewNop(), enforcer: enforcer}
}

func TestAuthorizeAllowsAdminWildcard(t *testing.T) {
	svc := newTestService(t)
	admin := authdomain.Actor{ID: 1, Role: authdomain.RoleAdmin}

	if err := svc.Authorize(context.Background(), admin, ObjectApplication, TransitionAction("verified")); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if err := svc.Authorize(context.Background(), admin, ObjectDashboard, ActionDashboardRead); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}

func TestAuthorizeDeniesCustomerTransitions(t *testing.T) {
	svc := newTestService(t)
	customer := authdomain.Actor{ID: 2, Role: authdomain.RoleCustomer}

	err := svc.Authorize(context.Background(), customer, ObjectApplication, TransitionAction("verified"))
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := svc.Authorize(context.Background(), customer, ObjectApplication, ActionApplicationSubmit); err != nil {
		t.Fatalf("expected customer submit allowed, got %v", err)
	}
}

func TestAuthorizeFieldStaffLimitedToFieldWork(t *testing.T) {
	svc := newTestService(t)
	staff := authdomain.Actor{ID: 3, Role: authdomain.RoleFieldStaff}

	if err := svc.Authorize(context.Background(), staff, ObjectApplication, TransitionAction("installed")); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	err := svc.Authorize(context.Background(), staff, ObjectApplication, ActionApplicationApprove)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorizeBillingActivates(t *testing.T) {
	svc := newTestService(t)
	billing := authdomain.Actor{ID: 4, Role: authdomain.RoleBilling}

	if err := svc.Authorize(context.Background(), billing, ObjectApplication, ActionApplicationActivate); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if err := svc.Authorize(context.Background(), billing, ObjectBill, ActionBillLateFee); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}

func TestAuthorizeSystem(t *testing.T) {
	svc := newTestService(t)
	if err := svc.Authorize(context.Background(), authdomain.SystemActor, ObjectApplication, TransitionAction("installed")); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}

func TestAuthorizeRejectsEmptyInputs(t *testing.T) {
	svc := newTestService(t)
	if err := svc.Authorize(context.Background(), authdomain.Actor{}, ObjectBill, ActionBillRead); !errors.Is(err, ErrInvalidActor) {
		t.Fatalf("expected invalid actor, got %v", err)
	}
	if err := svc.Authorize(context.Background(), authdomain.SystemActor, "", ActionBillRead); !errors.Is(err, ErrInvalidObject) {
		t.Fatalf("expected invalid object, got %v", err)
	}
}
