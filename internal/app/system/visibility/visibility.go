// Package visibility computes which contacts a user may see. Admins see
// everything (expressed as "no filter" rather than an enumerated set);
// a commercial agent sees contacts owned or created by themselves or by
// any transitive subordinate in the jerarquia relation.
package visibility

import (
	"context"

	jerarquiastore "github.com/grupovertice/captacion/internal/app/store/jerarquia"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Scope is the resolved visibility of one user.
type Scope struct {
	All bool                 // admin: no filtering applied
	IDs []primitive.ObjectID // agents whose contacts are visible
}

// Filter returns the contactos query filter for this scope. The zero
// Scope (no IDs, All=false) matches nothing, so resolver failures deny
// access instead of widening it.
func (s Scope) Filter() bson.M {
	if s.All {
		return bson.M{}
	}
	return bson.M{"$or": bson.A{
		bson.M{"comercial_id": bson.M{"$in": s.IDs}},
		bson.M{"creado_por": bson.M{"$in": s.IDs}},
	}}
}

// Contains reports whether an agent's contacts fall inside the scope.
func (s Scope) Contains(id primitive.ObjectID) bool {
	if s.All {
		return true
	}
	for _, v := range s.IDs {
		if v == id {
			return true
		}
	}
	return false
}

// Resolver walks the jerarquia edge table.
type Resolver struct {
	edges *jerarquiastore.Store
	log   *zap.Logger
}

func NewResolver(edges *jerarquiastore.Store, logger *zap.Logger) *Resolver {
	return &Resolver{edges: edges, log: logger}
}

// AdminScope is the unfiltered scope.
func AdminScope() Scope { return Scope{All: true} }

// ScopeFor computes the visible-agent set for a non-admin user: the user
// plus the transitive closure of their subordinates. The closure is
// computed iteratively, one batched query per frontier level, with a
// visited set so cyclic edge data terminates. On any query error the
// empty scope is returned (fail closed) and the error is logged.
func (r *Resolver) ScopeFor(ctx context.Context, userID primitive.ObjectID) Scope {
	visited := map[primitive.ObjectID]struct{}{userID: {}}
	frontier := []primitive.ObjectID{userID}

	for len(frontier) > 0 {
		subs, err := r.edges.SubordinadosDe(ctx, frontier)
		if err != nil {
			r.log.Error("visibility closure query failed",
				zap.String("usuario_id", userID.Hex()),
				zap.Error(err))
			return Scope{}
		}
		frontier = frontier[:0]
		for _, id := range subs {
			if _, seen := visited[id]; seen {
				continue
			}
			visited[id] = struct{}{}
			frontier = append(frontier, id)
		}
	}

	ids := make([]primitive.ObjectID, 0, len(visited))
	for id := range visited {
		ids = append(ids, id)
	}
	return Scope{IDs: ids}
}
