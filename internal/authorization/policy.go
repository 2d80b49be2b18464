package authorization

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	ObjectApplication = "application"
	ObjectTask        = "field_task"
	ObjectBill        = "bill"
	ObjectPayment     = "payment"
	ObjectDocument    = "document"
	ObjectDashboard   = "dashboard"
)

const (
	ActionApplicationSubmit   = "submit"
	ActionApplicationRead     = "read"
	ActionApplicationList     = "list"
	ActionApplicationApprove  = "approve"
	ActionApplicationReject   = "reject"
	ActionApplicationActivate = "activate"

	ActionTaskAssign  = "assign"
	ActionTaskUpdate  = "update"
	ActionTaskRead    = "read"
	ActionTaskMonitor = "monitor"

	ActionBillCreate  = "create"
	ActionBillRead    = "read"
	ActionBillPay     = "pay"
	ActionBillLateFee = "late_fee"
	ActionBillSummary = "summary"

	ActionPaymentInitiate = "initiate"
	ActionPaymentVerify   = "verify"

	ActionDocumentRecord = "record"
	ActionDocumentVerify = "verify"

	ActionDashboardRead = "read"
)

// TransitionAction names the permission needed to move an application into status.
func TransitionAction(status string) string {
	return "transition:" + status
}

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && keyMatch(r.act, p.act)
`

// defaultPolicies is the role matrix. Ownership checks happen in the services.
var defaultPolicies = [][]string{
	{"admin", ObjectApplication, "*"},
	{"admin", ObjectTask, "*"},
	{"admin", ObjectBill, "*"},
	{"admin", ObjectPayment, ActionPaymentVerify},
	{"admin", ObjectDocument, "*"},
	{"admin", ObjectDashboard, "*"},

	{"field_staff", ObjectApplication, ActionApplicationRead},
	{"field_staff", ObjectApplication, TransitionAction("meter_scheduled")},
	{"field_staff", ObjectApplication, TransitionAction("installed")},
	{"field_staff", ObjectTask, ActionTaskRead},
	{"field_staff", ObjectTask, ActionTaskUpdate},

	{"billing", ObjectApplication, ActionApplicationRead},
	{"billing", ObjectApplication, ActionApplicationActivate},
	{"billing", ObjectApplication, TransitionAction("connected")},
	{"billing", ObjectBill, "*"},
	{"billing", ObjectPayment, ActionPaymentVerify},

	{"customer", ObjectApplication, ActionApplicationSubmit},
	{"customer", ObjectApplication, ActionApplicationRead},
	{"customer", ObjectBill, ActionBillRead},
	{"customer", ObjectDocument, ActionDocumentRecord},
	{"customer", ObjectPayment, ActionPaymentInitiate},
	{"customer", ObjectPayment, ActionPaymentVerify},
}

// NewEnforcer builds a casbin enforcer loaded with the role matrix.
func NewEnforcer() (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, err
	}
	if _, err := enforcer.AddPolicies(defaultPolicies); err != nil {
		return nil, err
	}
	return enforcer, nil
}
