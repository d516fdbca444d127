package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/relation"
)

// Neo4jGraphRepo : (:User {username})-[:FOLLOWS {status, created_at}]->(:User).
// Au plus une relation FOLLOWS par sens, garanti par MERGE.
type Neo4jGraphRepo struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jGraphRepo(driver neo4j.DriverWithContext) *Neo4jGraphRepo {
	return &Neo4jGraphRepo{driver: driver}
}

// EnsureSchema : unicité sur User.username (crée aussi l'index).
func (r *Neo4jGraphRepo) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		q := `CREATE CONSTRAINT user_username_unique IF NOT EXISTS FOR (u:User) REQUIRE u.username IS UNIQUE`
		_, err := tx.Run(ctx, q, nil)
		return nil, err
	})
	return err
}

func (r *Neo4jGraphRepo) EdgesBetween(ctx context.Context, a, b string) ([]domain.FollowEdge, error) {
	q := `
		MATCH (x:User {username: $a})-[r:FOLLOWS]-(y:User {username: $b})
		RETURN startNode(r).username AS requester, endNode(r).username AS target,
		       r.status AS status, r.created_at AS created_at
	`
	return r.readEdges(ctx, q, map[string]any{"a": a, "b": b})
}

// ApplyChange persiste exactement la transition validée par le package relation.
func (r *Neo4jGraphRepo) ApplyChange(ctx context.Context, c relation.Change) error {
	var q string
	switch c.Kind {
	case relation.ChangeCreated:
		q = `
			MERGE (a:User {username: $requester})
			MERGE (b:User {username: $target})
			MERGE (a)-[r:FOLLOWS]->(b)
			ON CREATE SET r.status = $status, r.created_at = $created_at
		`
	case relation.ChangeAccepted:
		q = `
			MATCH (:User {username: $requester})-[r:FOLLOWS]->(:User {username: $target})
			SET r.status = $status
		`
	case relation.ChangeDeleted:
		q = `
			MATCH (:User {username: $requester})-[r:FOLLOWS]->(:User {username: $target})
			DELETE r
		`
	default:
		return fmt.Errorf("neo4j: unknown change kind %d", c.Kind)
	}

	createdAt := c.Edge.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, q, map[string]any{
			"requester":  c.Edge.Requester,
			"target":     c.Edge.Target,
			"status":     string(c.Edge.Status),
			"created_at": createdAt,
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("neo4j: apply %s: %w", c.Kind, err)
	}
	return nil
}

func (r *Neo4jGraphRepo) Followers(ctx context.Context, username string) ([]string, error) {
	q := `
		MATCH (f:User)-[:FOLLOWS {status: 'ACCEPTED'}]->(:User {username: $username})
		RETURN f.username AS username ORDER BY username
	`
	return r.readUsernames(ctx, q, username)
}

func (r *Neo4jGraphRepo) Followees(ctx context.Context, username string) ([]string, error) {
	q := `
		MATCH (:User {username: $username})-[:FOLLOWS {status: 'ACCEPTED'}]->(f:User)
		RETURN f.username AS username ORDER BY username
	`
	return r.readUsernames(ctx, q, username)
}

func (r *Neo4jGraphRepo) IncomingRequests(ctx context.Context, username string) ([]domain.FollowEdge, error) {
	q := `
		MATCH (a:User)-[r:FOLLOWS {status: 'PENDING'}]->(b:User {username: $username})
		RETURN a.username AS requester, b.username AS target, r.status AS status, r.created_at AS created_at
		ORDER BY created_at DESC
	`
	return r.readEdges(ctx, q, map[string]any{"username": username})
}

func (r *Neo4jGraphRepo) readUsernames(ctx context.Context, q, username string) ([]string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, q, map[string]any{"username": username})
		if err != nil {
			return nil, err
		}
		var names []string
		for res.Next(ctx) {
			name, _, err := neo4j.GetRecordValue[string](res.Record(), "username")
			if err != nil {
				return nil, err
			}
			names = append(names, name)
		}
		return names, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: read usernames: %w", err)
	}
	return out.([]string), nil
}

func (r *Neo4jGraphRepo) readEdges(ctx context.Context, q string, params map[string]any) ([]domain.FollowEdge, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, q, params)
		if err != nil {
			return nil, err
		}
		var edges []domain.FollowEdge
		for res.Next(ctx) {
			e, err := recordToEdge(res.Record())
			if err != nil {
				return nil, err
			}
			edges = append(edges, e)
		}
		return edges, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: read edges: %w", err)
	}
	return out.([]domain.FollowEdge), nil
}

func recordToEdge(rec *neo4j.Record) (domain.FollowEdge, error) {
	requester, _, err := neo4j.GetRecordValue[string](rec, "requester")
	if err != nil {
		return domain.FollowEdge{}, err
	}
	target, _, err := neo4j.GetRecordValue[string](rec, "target")
	if err != nil {
		return domain.FollowEdge{}, err
	}
	status, _, err := neo4j.GetRecordValue[string](rec, "status")
	if err != nil {
		return domain.FollowEdge{}, err
	}
	e := domain.FollowEdge{Requester: requester, Target: target, Status: domain.EdgeStatus(status)}
	if createdAt, isNil, err := neo4j.GetRecordValue[time.Time](rec, "created_at"); err == nil && !isNil {
		e.CreatedAt = createdAt.UTC()
	}
	return e, nil
}
