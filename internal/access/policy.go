// Package access holds the single role-based policy table every mutation and
// read path goes through.
package access

import (
	"tradehub-be/internal/apperr"
)

type Entity string

const (
	EntityUser         Entity = "user"
	EntityCategory     Entity = "category"
	EntityProduct      Entity = "product"
	EntityOrder        Entity = "order"
	EntityRFQ          Entity = "rfq"
	EntityShipment     Entity = "shipment"
	EntityBlogPost     Entity = "blog_post"
	EntitySupplier     Entity = "supplier"
	EntityReview       Entity = "review"
	EntityNotification Entity = "notification"
	EntityAnalytics    Entity = "analytics"
	EntityAddress      Entity = "address"
)

type Operation string

const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Request describes one access decision. IsOwner is the ownership relation
// between the actor and the target; IsPublic marks an active product or
// category, or a published blog post.
type Request struct {
	Role     Role
	Entity   Entity
	Op       Operation
	IsOwner  bool
	IsPublic bool
}

type rule struct {
	name    string
	matches func(Request) bool
	decide  func(Request) bool
}

// rules are evaluated top to bottom; the first matching rule decides.
var rules = []rule{
	{
		name:    "superadmin",
		matches: func(r Request) bool { return r.Role == RoleSuperAdmin },
		decide:  func(Request) bool { return true },
	},
	{
		name:    "back-office",
		matches: func(r Request) bool { return r.Role == RoleAdmin || r.Role == RoleStaff },
		decide:  decideBackOffice,
	},
	{
		name:    "supplier",
		matches: func(r Request) bool { return r.Role == RoleSupplier },
		decide:  decideSupplier,
	},
	{
		name:    "customer",
		matches: func(r Request) bool { return r.Role == RoleCustomer },
		decide:  decideCustomer,
	},
	{
		name:    "anonymous",
		matches: func(Request) bool { return true },
		decide:  decidePublicRead,
	},
}

// Decide is a pure function of the request.
func Decide(r Request) bool {
	for _, rl := range rules {
		if rl.matches(r) {
			return rl.decide(r)
		}
	}
	return false
}

// Authorize returns nil when allowed and PermissionDenied otherwise. An
// anonymous actor attempting a mutation gets Unauthenticated instead so the
// caller can prompt for sign-in.
func Authorize(r Request) error {
	if Decide(r) {
		return nil
	}
	if r.Role == RoleAnonymous && r.Op != OpRead {
		return apperr.Unauthenticated()
	}
	return apperr.PermissionDenied(string(r.Entity), string(r.Op))
}

// Check is Authorize for an actor.
func Check(a Actor, entity Entity, op Operation, isOwner, isPublic bool) error {
	role := a.Role
	if a.IsAnonymous() {
		role = RoleAnonymous
	}
	return Authorize(Request{Role: role, Entity: entity, Op: op, IsOwner: isOwner, IsPublic: isPublic})
}

func decideBackOffice(r Request) bool {
	switch r.Entity {
	case EntityCategory, EntityProduct:
		// Hard deletes are admin-only.
		return r.Op != OpDelete || r.Role == RoleAdmin
	case EntityRFQ, EntityOrder, EntityShipment, EntityBlogPost, EntitySupplier, EntityAnalytics:
		return r.Op != OpDelete
	case EntityReview:
		// Reviews are written by customers; the back office moderates.
		return r.Op != OpCreate
	case EntityUser:
		if r.Op == OpRead || (r.Op == OpUpdate && r.IsOwner) {
			return true
		}
		// Updating another user is a role change; only admins pass here and
		// CanAssignRole narrows it further.
		return r.Op == OpUpdate && r.Role == RoleAdmin
	case EntityNotification:
		return r.Op == OpCreate || ownerReadUpdate(r)
	case EntityAddress:
		return r.Op == OpRead || r.IsOwner
	}
	return false
}

func decideSupplier(r Request) bool {
	switch r.Entity {
	case EntitySupplier, EntityNotification:
		return ownerReadUpdate(r)
	case EntityAddress:
		return r.IsOwner
	case EntityProduct:
		return r.Op == OpRead && (r.IsOwner || r.IsPublic)
	case EntityCategory, EntityBlogPost:
		return r.Op == OpRead && r.IsPublic
	}
	return false
}

func decideCustomer(r Request) bool {
	switch r.Entity {
	case EntityOrder, EntityRFQ, EntityReview:
		return r.Op == OpCreate || ownerReadUpdate(r)
	case EntityUser, EntityNotification:
		return ownerReadUpdate(r)
	case EntityShipment:
		return r.Op == OpRead && r.IsOwner
	case EntityAddress:
		return r.IsOwner
	case EntityCategory, EntityProduct, EntityBlogPost:
		return r.Op == OpRead && r.IsPublic
	}
	return false
}

func decidePublicRead(r Request) bool {
	switch r.Entity {
	case EntityCategory, EntityProduct, EntityBlogPost:
		return r.Op == OpRead && r.IsPublic
	}
	return false
}

func ownerReadUpdate(r Request) bool {
	return r.IsOwner && (r.Op == OpRead || r.Op == OpUpdate)
}

// CanAssignRole decides whether actor may set targetID's role from current
// to next. Nobody changes their own role; only superadmin grants or revokes
// superadmin or touches another admin.
func CanAssignRole(actor Actor, targetID string, current, next Role) error {
	if !next.IsValid() {
		return apperr.Validation("role", "invalid role %q", next)
	}
	if actor.IsAnonymous() {
		return apperr.Unauthenticated()
	}
	if actor.UserID == targetID {
		return apperr.PermissionDenied(string(EntityUser), "change own role of")
	}

	switch actor.Role {
	case RoleSuperAdmin:
		return nil
	case RoleAdmin:
		if next == RoleSuperAdmin || current == RoleSuperAdmin || current == RoleAdmin {
			return apperr.PermissionDenied(string(EntityUser), "change role of")
		}
		return nil
	}
	return apperr.PermissionDenied(string(EntityUser), "change role of")
}
