package users

import (
	"context"
	"sync"

	"github.com/mobyapp/mobyapp/backend/go-services/internal/airtable"
	"github.com/mobyapp/mobyapp/backend/go-services/pkg/logger"
)

// maxNameMatches bounds the name-match query; the legacy base tolerates a
// handful of same-named projects.
const maxNameMatches = 10

// ProjectResolver reconciles legacy project rows against the MobyApp projects
// table and maintains the project→user reverse links.
type ProjectResolver struct {
	projects airtable.Table
	clients  airtable.Table // nil when no clients table is configured

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewProjectResolver(projects, clients airtable.Table) *ProjectResolver {
	return &ProjectResolver{projects: projects, clients: clients, locks: map[string]*sync.Mutex{}}
}

// ResolvedProject is the outcome of a reconciliation. Created is true only
// when this call inserted the project.
type ResolvedProject struct {
	ID      string
	Created bool
}

// ResolveOrCreate finds the app project for a legacy (name, client) pair or
// creates it. Name equality is the primary match because the legacy system
// never sees app record ids; the client link disambiguates same-named
// projects when a Clients table is configured. Without a resolved client the
// first name match wins; distinct projects with identical names can be
// conflated, a known limitation of the legacy data.
func (r *ProjectResolver) ResolveOrCreate(ctx context.Context, name, clientName, start, end string) (ResolvedProject, error) {
	matches, err := r.projects.Select(ctx, airtable.SelectQuery{
		Formula:    airtable.FieldEquals(colProjectName, name),
		MaxRecords: maxNameMatches,
	})
	if err != nil {
		return ResolvedProject{}, err
	}

	clientID := r.resolveClient(ctx, clientName)

	if clientID != "" {
		for _, m := range matches {
			for _, id := range linkIDs(m.Fields[colProjectClient]) {
				if id == clientID {
					return ResolvedProject{ID: m.ID}, nil
				}
			}
		}
	} else if len(matches) > 0 {
		return ResolvedProject{ID: matches[0].ID}, nil
	}

	fields := map[string]interface{}{
		colProjectName: name,
	}
	if start != "" {
		fields[colProjectStart] = start
	}
	if end != "" {
		fields[colProjectEnd] = end
	}
	if clientID != "" {
		fields[colProjectClient] = []string{clientID}
	} else if clientName != "" {
		fields[colProjectClient] = clientName
	}

	created, err := r.projects.Create(ctx, []map[string]interface{}{fields})
	if err != nil {
		return ResolvedProject{}, err
	}
	return ResolvedProject{ID: created[0].ID, Created: true}, nil
}

// resolveClient maps a client name to a Clients record id, best effort: an
// unresolved name or a lookup failure both fall back to "" and the caller
// proceeds without a client link.
func (r *ProjectResolver) resolveClient(ctx context.Context, clientName string) string {
	if clientName == "" || r.clients == nil {
		return ""
	}
	recs, err := r.clients.Select(ctx, airtable.SelectQuery{
		Formula:    airtable.FieldEquals(colClientName, clientName),
		MaxRecords: 1,
	})
	if err != nil {
		logger.Warnf("client lookup for %q failed, proceeding without client link: %v", clientName, err)
		return ""
	}
	if len(recs) == 0 {
		return ""
	}
	return recs[0].ID
}

// LinkUserToProject adds userID to the project's "Usuarios MobyApp" set
// without clobbering entries written by earlier migrations. Calls for the
// same project id are serialized through a per-project mutex; the
// read-modify-write is still not atomic against concurrent external writers.
func (r *ProjectResolver) LinkUserToProject(ctx context.Context, projectID, userID string) error {
	lock := r.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	rec, err := r.projects.Find(ctx, projectID)
	if err != nil {
		return err
	}
	ids := linkIDs(rec.Fields[colProjectUsers])
	for _, id := range ids {
		if id == userID {
			return nil
		}
	}
	ids = append(ids, userID)
	_, err = r.projects.Update(ctx, []airtable.Update{{
		ID:     projectID,
		Fields: map[string]interface{}{colProjectUsers: ids},
	}})
	return err
}

func (r *ProjectResolver) projectLock(projectID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[projectID] = lock
	}
	return lock
}
