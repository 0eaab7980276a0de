package users

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mobyapp/mobyapp/backend/go-services/internal/airtable"
)

// Tables groups the store handles the service operates on. Clients may be nil
// when no clients table is configured.
type Tables struct {
	Payroll        airtable.Table
	LegacyProjects airtable.Table
	Users          airtable.Table
	Projects       airtable.Table
	Clients        airtable.Table
}

// Service encapsulates the user-facing business logic: payroll migration,
// partial updates, and denormalized reads.
type Service struct {
	payroll        airtable.Table
	legacyProjects airtable.Table
	users          airtable.Table
	projects       airtable.Table
	resolver       *ProjectResolver
}

func NewService(t Tables) *Service {
	return &Service{
		payroll:        t.Payroll,
		legacyProjects: t.LegacyProjects,
		users:          t.Users,
		projects:       t.Projects,
		resolver:       NewProjectResolver(t.Projects, t.Clients),
	}
}

// findOne looks up the first record whose field equals value, or nil.
func findOne(ctx context.Context, tbl airtable.Table, field, value string) (*airtable.Record, error) {
	recs, err := tbl.Select(ctx, airtable.SelectQuery{
		Formula:    airtable.FieldEquals(field, value),
		MaxRecords: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

// MigrateUser moves a person from the payroll table into the app users table.
// Legacy project links are resolved against the app projects table
// (create-on-miss) and the new user is linked back into each project.
func (s *Service) MigrateUser(ctx context.Context, email, firstName, lastName, pictureURL string) (*MigrateResult, error) {
	if email == "" || firstName == "" || lastName == "" || pictureURL == "" {
		return nil, validationErrorf("must provide 'email', 'name', 'lastName' and 'picture' in the request body")
	}

	person, err := findOne(ctx, s.payroll, colPayrollEmail, email)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, notFoundErrorf("user with email %s not found in the active payroll", email)
	}

	legacyIDs := linkIDs(person.Fields[colPayrollProjects])

	// one concurrent lookup per legacy project, all-or-nothing: a single
	// failed fetch aborts the whole migration
	legacy := make([]*airtable.Record, len(legacyIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range legacyIDs {
		g.Go(func() error {
			rec, err := s.legacyProjects.Find(gctx, id)
			if err != nil {
				return err
			}
			legacy[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	projectIDs := []string{}
	seen := map[string]bool{}
	created := 0
	for _, p := range legacy {
		name := textField(p.Fields, colLegacyProjectName)
		if name == "" {
			continue
		}
		resolved, err := s.resolver.ResolveOrCreate(ctx,
			name,
			textField(p.Fields, colLegacyProjectClient),
			textField(p.Fields, colLegacyProjectStart),
			textField(p.Fields, colLegacyProjectEnd),
		)
		if err != nil {
			return nil, err
		}
		if resolved.Created {
			created++
		}
		if !seen[resolved.ID] {
			seen[resolved.ID] = true
			projectIDs = append(projectIDs, resolved.ID)
		}
	}

	userFields := map[string]interface{}{
		colEmail:      email,
		colFirstName:  firstName,
		colLastName:   lastName,
		colPictureURL: pictureURL,
		colIsReferent: false,
		colIsPartner:  false,
		colProjects:   projectIDs,
	}
	if alta := textField(person.Fields, colPayrollOnboarding); alta != "" {
		userFields[colOnboarding] = alta
	}

	newRecs, err := s.users.Create(ctx, []map[string]interface{}{userFields})
	if err != nil {
		return nil, err
	}
	newUser := newRecs[0]

	for _, id := range projectIDs {
		if err := s.resolver.LinkUserToProject(ctx, id, newUser.ID); err != nil {
			return nil, err
		}
	}

	return &MigrateResult{UserID: newUser.ID, ProjectsCreated: created, Fields: newUser.Fields}, nil
}

// UpdateUser applies a partial update located by email and returns the
// updated record with link fields denormalized.
func (s *Service) UpdateUser(ctx context.Context, email string, req UpdateUserRequest) (*UserProfile, error) {
	fields, err := MapUpdateFields(req)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, validationErrorf("must provide at least one valid field to update in the request body")
	}

	rec, err := findOne(ctx, s.users, colEmail, email)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, notFoundErrorf("user with email %s not found in the users table", email)
	}

	updated, err := s.users.Update(ctx, []airtable.Update{{ID: rec.ID, Fields: fields}})
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, &updated[0]), nil
}

// GetUserByEmail returns the full denormalized profile for a user.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*UserProfile, error) {
	rec, err := findOne(ctx, s.users, colEmail, email)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, notFoundErrorf("user with email %s not found in the users table", email)
	}
	return s.profile(ctx, rec), nil
}

// CheckUserExists returns the raw user record for the email, or nil when absent.
func (s *Service) CheckUserExists(ctx context.Context, email string) (*airtable.Record, error) {
	return findOne(ctx, s.users, colEmail, email)
}

// GetUserFullName returns "Nombre Apellido", trimmed.
func (s *Service) GetUserFullName(ctx context.Context, email string) (string, error) {
	rec, err := findOne(ctx, s.users, colEmail, email)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", notFoundErrorf("user with email %s not found", email)
	}
	full := textField(rec.Fields, colFirstName) + " " + textField(rec.Fields, colLastName)
	return strings.TrimSpace(full), nil
}

// CheckEmailInPayroll reports whether the email exists in the payroll table.
func (s *Service) CheckEmailInPayroll(ctx context.Context, email string) (bool, error) {
	rec, err := findOne(ctx, s.payroll, colPayrollEmail, email)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

var summaryFields = []string{colEmail, colFirstName, colLastName, colIsReferent, colIsPartner}

// ListUsers scans the users table into light DTOs. An empty table is reported
// as NotFound; the original service behaved this way and clients depend on it.
func (s *Service) ListUsers(ctx context.Context) ([]UserSummary, error) {
	recs, err := s.scanUsers(ctx)
	if err != nil {
		return nil, err
	}
	return summaries(recs, nil), nil
}

// ListReferents returns users flagged "Es Referente?".
func (s *Service) ListReferents(ctx context.Context) ([]UserSummary, error) {
	recs, err := s.scanUsers(ctx)
	if err != nil {
		return nil, err
	}
	return summaries(recs, func(f map[string]interface{}) bool { return boolField(f, colIsReferent) }), nil
}

// ListPartners returns users flagged "Es Talent Partner?".
func (s *Service) ListPartners(ctx context.Context) ([]UserSummary, error) {
	recs, err := s.scanUsers(ctx)
	if err != nil {
		return nil, err
	}
	return summaries(recs, func(f map[string]interface{}) bool { return boolField(f, colIsPartner) }), nil
}

// ListByTechnology performs a case-insensitive substring search on the
// technology column. Zero matches is NotFound, same policy as the scans.
func (s *Service) ListByTechnology(ctx context.Context, technology string) ([]UserSummary, error) {
	term := strings.TrimSpace(technology)
	if term == "" {
		return nil, validationErrorf("must provide a valid technology to search for")
	}
	recs, err := s.users.Select(ctx, airtable.SelectQuery{
		Formula: airtable.FieldContainsFold(colTechnology, term),
		Fields:  summaryFields,
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, notFoundErrorf("no users found with a technology matching %q", term)
	}
	return summaries(recs, nil), nil
}

func (s *Service) scanUsers(ctx context.Context) ([]airtable.Record, error) {
	recs, err := s.users.Select(ctx, airtable.SelectQuery{Fields: summaryFields})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, notFoundErrorf("no users found")
	}
	return recs, nil
}

func summaries(recs []airtable.Record, keep func(map[string]interface{}) bool) []UserSummary {
	out := []UserSummary{}
	for _, r := range recs {
		if keep != nil && !keep(r.Fields) {
			continue
		}
		out = append(out, UserSummary{
			ID:       r.ID,
			Email:    textField(r.Fields, colEmail),
			Name:     textField(r.Fields, colFirstName),
			LastName: textField(r.Fields, colLastName),
		})
	}
	return out
}

// profile builds the full DTO, expanding project ids to names and the
// referent / talent partner links to UserReferences.
func (s *Service) profile(ctx context.Context, rec *airtable.Record) *UserProfile {
	f := rec.Fields
	return &UserProfile{
		ID:              rec.ID,
		Email:           textField(f, colEmail),
		Name:            textField(f, colFirstName),
		LastName:        textField(f, colLastName),
		PictureURL:      textField(f, colPictureURL),
		Province:        textField(f, colProvince),
		Locality:        textField(f, colLocality),
		CurrentTech:     textField(f, colTechnology),
		OnboardingDate:  textField(f, colOnboarding),
		SignatureURL:    textField(f, colSignatureURL),
		IsReferent:      boolField(f, colIsReferent),
		IsTalentPartner: boolField(f, colIsPartner),
		Projects:        lookupLinkedField(ctx, s.projects, linkIDs(f[colProjects]), colProjectName),
		Referent:        lookupUserReference(ctx, s.users, linkIDs(f[colReferent])),
		TalentPartner:   lookupUserReference(ctx, s.users, linkIDs(f[colPartner])),
	}
}
