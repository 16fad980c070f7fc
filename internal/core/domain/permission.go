package domain

// Resource identifies a record type permissions are granted against.
type Resource string

const (
	ResourceQuotations Resource = "quotations"
	ResourceClients    Resource = "clients"
	ResourceInvoices   Resource = "invoices"
	ResourceUsers      Resource = "users"
	ResourceSettings   Resource = "settings"
)

// Action identifies an operation on a resource. ActionReadAll is distinct
// from ActionRead: it grants visibility beyond records the caller owns.
type Action string

const (
	ActionRead              Action = "read"
	ActionReadAll           Action = "read_all"
	ActionCreate            Action = "create"
	ActionUpdate            Action = "update"
	ActionDelete            Action = "delete"
	ActionApprove           Action = "approve"
	ActionReject            Action = "reject"
	ActionSend              Action = "send"
	ActionExport            Action = "export"
	ActionManagePermissions Action = "manage_permissions"
)

type grant struct {
	resource Resource
	action   Action
}

// PermissionSet is an immutable set of (resource, action) grants.
type PermissionSet struct {
	grants map[grant]struct{}
}

// Has reports whether the set contains the given grant. It never fails:
// an unknown resource/action pair is simply not in the set.
func (p PermissionSet) Has(r Resource, a Action) bool {
	_, ok := p.grants[grant{resource: r, action: a}]
	return ok
}

// Len returns the number of grants in the set.
func (p PermissionSet) Len() int { return len(p.grants) }

// rolePermissions is the authoritative permission table. Each role lists its
// grants in full; nothing is derived from the role hierarchy, so adding a
// permission to one role never leaks it to another implicitly.
var rolePermissions = map[Role][]grant{
	RoleUser: {
		{ResourceQuotations, ActionRead},
		{ResourceQuotations, ActionCreate},
		{ResourceQuotations, ActionUpdate},
		{ResourceQuotations, ActionSend},
		{ResourceQuotations, ActionExport},
		{ResourceClients, ActionRead},
		{ResourceClients, ActionCreate},
		{ResourceClients, ActionUpdate},
		{ResourceInvoices, ActionRead},
	},
	RoleManager: {
		{ResourceQuotations, ActionRead},
		{ResourceQuotations, ActionReadAll},
		{ResourceQuotations, ActionCreate},
		{ResourceQuotations, ActionUpdate},
		{ResourceQuotations, ActionApprove},
		{ResourceQuotations, ActionReject},
		{ResourceQuotations, ActionSend},
		{ResourceQuotations, ActionExport},
		{ResourceClients, ActionRead},
		{ResourceClients, ActionReadAll},
		{ResourceClients, ActionCreate},
		{ResourceClients, ActionUpdate},
		{ResourceInvoices, ActionRead},
		{ResourceInvoices, ActionReadAll},
		{ResourceUsers, ActionRead},
	},
	RoleAdmin: {
		{ResourceQuotations, ActionRead},
		{ResourceQuotations, ActionReadAll},
		{ResourceQuotations, ActionCreate},
		{ResourceQuotations, ActionUpdate},
		{ResourceQuotations, ActionDelete},
		{ResourceQuotations, ActionApprove},
		{ResourceQuotations, ActionReject},
		{ResourceQuotations, ActionSend},
		{ResourceQuotations, ActionExport},
		{ResourceClients, ActionRead},
		{ResourceClients, ActionReadAll},
		{ResourceClients, ActionCreate},
		{ResourceClients, ActionUpdate},
		{ResourceClients, ActionDelete},
		{ResourceInvoices, ActionRead},
		{ResourceInvoices, ActionReadAll},
		{ResourceInvoices, ActionDelete},
		{ResourceUsers, ActionRead},
		{ResourceUsers, ActionReadAll},
		{ResourceUsers, ActionCreate},
		{ResourceUsers, ActionUpdate},
		{ResourceSettings, ActionRead},
		{ResourceSettings, ActionUpdate},
	},
	RoleSuperAdmin: {
		{ResourceQuotations, ActionRead},
		{ResourceQuotations, ActionReadAll},
		{ResourceQuotations, ActionCreate},
		{ResourceQuotations, ActionUpdate},
		{ResourceQuotations, ActionDelete},
		{ResourceQuotations, ActionApprove},
		{ResourceQuotations, ActionReject},
		{ResourceQuotations, ActionSend},
		{ResourceQuotations, ActionExport},
		{ResourceClients, ActionRead},
		{ResourceClients, ActionReadAll},
		{ResourceClients, ActionCreate},
		{ResourceClients, ActionUpdate},
		{ResourceClients, ActionDelete},
		{ResourceInvoices, ActionRead},
		{ResourceInvoices, ActionReadAll},
		{ResourceInvoices, ActionDelete},
		{ResourceUsers, ActionRead},
		{ResourceUsers, ActionReadAll},
		{ResourceUsers, ActionCreate},
		{ResourceUsers, ActionUpdate},
		{ResourceUsers, ActionDelete},
		{ResourceUsers, ActionManagePermissions},
		{ResourceSettings, ActionRead},
		{ResourceSettings, ActionUpdate},
		{ResourceSettings, ActionManagePermissions},
	},
}

// resolved caches one immutable PermissionSet per role, built once at package
// init so Resolve is allocation-free and trivially deterministic.
var resolved = func() map[Role]PermissionSet {
	m := make(map[Role]PermissionSet, len(rolePermissions))
	for role, grants := range rolePermissions {
		set := make(map[grant]struct{}, len(grants))
		for _, g := range grants {
			set[g] = struct{}{}
		}
		m[role] = PermissionSet{grants: set}
	}
	return m
}()

// Resolve maps a role to its permission set. Total and pure: every known role
// maps to its table entry and any unknown role maps to the empty (deny-all)
// set. It never fails.
func Resolve(role Role) PermissionSet {
	if set, ok := resolved[role]; ok {
		return set
	}
	return PermissionSet{}
}
