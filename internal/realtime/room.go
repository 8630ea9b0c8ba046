package realtime

import (
	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/requestdata"
	"github.com/careerbridge/careerbridge-backend/internal/types"
)

// RoomID is a logical broadcast group. A connection joins its rooms once,
// at connect time, and membership never changes afterwards.
type RoomID string

const AdminRoom RoomID = "admin"

func UserRoom(userID uuid.UUID) RoomID {
	return RoomID("user:" + userID.String())
}

func CompanyRoom(companyID uuid.UUID) RoomID {
	return RoomID("company:" + companyID.String())
}

// RoomsFor maps an authenticated identity to the deterministic room set it
// may join. A company-role identity without a resolvable company id gets no
// company room: the connection stays up, it just receives nothing scoped to
// a company.
func RoomsFor(id *requestdata.Identity, log *logger.Logger) []RoomID {
	if id == nil || id.UserID == uuid.Nil {
		return nil
	}
	switch id.Role {
	case types.RoleStudent:
		return []RoomID{UserRoom(id.UserID)}
	case types.RoleCompany:
		if id.CompanyID == nil || *id.CompanyID == uuid.Nil {
			if log != nil {
				log.Warn("company-role identity has no company id, skipping company room", "user_id", id.UserID)
			}
			return nil
		}
		return []RoomID{CompanyRoom(*id.CompanyID)}
	case types.RoleAdmin:
		return []RoomID{AdminRoom}
	default:
		if log != nil {
			log.Warn("unknown role, no rooms assigned", "role", id.Role, "user_id", id.UserID)
		}
		return nil
	}
}
