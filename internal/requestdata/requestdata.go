package requestdata

import (
	"context"

	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-backend/internal/types"
)

var identityKey = struct{}{}

// Identity is the resolved caller on every authenticated request and on
// every accepted socket connection.
type Identity struct {
	UserID    uuid.UUID
	Role      types.Role
	CompanyID *uuid.UUID
}

func (id *Identity) IsAdmin() bool {
	return id != nil && id.Role == types.RoleAdmin
}

func (id *Identity) IsCompany() bool {
	return id != nil && id.Role == types.RoleCompany
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func GetIdentity(ctx context.Context) *Identity {
	val := ctx.Value(identityKey)
	if id, ok := val.(*Identity); ok {
		return id
	}
	return nil
}
