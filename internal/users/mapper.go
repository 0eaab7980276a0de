package users

import "strings"

// MapUpdateFields translates a partial update DTO into Airtable column
// values. Pure function, no I/O; fails with ValidationError on invalid input.
//
// Rules:
//   - name/lastName/province/locality are trimmed; an empty name or lastName
//     is rejected, an empty province/locality maps through as "" (clear).
//   - email is the immutable identity key: updates to it are dropped.
//   - currentTech is trimmed and dropped when empty (optional field).
//   - link arrays map through verbatim; an explicit empty array clears the link.
//
// An empty result means the caller supplied nothing updatable; the caller
// treats that as a validation failure.
func MapUpdateFields(req UpdateUserRequest) (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	simple := []struct {
		val      *string
		col      string
		required bool
	}{
		{req.Name, colFirstName, true},
		{req.LastName, colLastName, true},
		{req.Province, colProvince, false},
		{req.Locality, colLocality, false},
	}
	for _, f := range simple {
		if f.val == nil {
			continue
		}
		v := strings.TrimSpace(*f.val)
		if f.required && v == "" {
			return nil, validationErrorf("field %q must not be empty", f.col)
		}
		fields[f.col] = v
	}

	if req.CurrentTech != nil {
		if v := strings.TrimSpace(req.CurrentTech.Name); v != "" {
			fields[colTechnology] = v
		}
	}

	links := []struct {
		val *[]string
		col string
	}{
		{req.Projects, colProjects},
		{req.Referent, colReferent},
		{req.TalentPartner, colPartner},
	}
	for _, l := range links {
		if l.val == nil {
			continue
		}
		fields[l.col] = append([]string{}, (*l.val)...)
	}

	return fields, nil
}
