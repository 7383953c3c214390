package services

import (
	"strings"

	"nightout/internal/domain"
)

// ClassifyInvites partitions a raw invite batch against the emails already invited to an event.
// Inputs are trimmed and blanks dropped. Comparison is case-insensitive; the first spelling of
// an address wins and later repeats land in DuplicatesInRequest with their own casing.
// The second return value is false when nothing usable was left after trimming.
func ClassifyInvites(raw, existing []string) (domain.InviteClassification, bool) {
	unique := uniqueEmails(raw)
	if len(unique.kept) == 0 {
		return domain.InviteClassification{}, false
	}

	invited := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		invited[normalizeEmail(e)] = struct{}{}
	}

	c := domain.InviteClassification{
		NewEmails:           []string{},
		DuplicatesInRequest: unique.repeats,
		AlreadyInvited:      []string{},
	}
	for _, e := range unique.kept {
		if _, ok := invited[normalizeEmail(e)]; ok {
			c.AlreadyInvited = append(c.AlreadyInvited, e)
			continue
		}
		c.NewEmails = append(c.NewEmails, e)
	}
	return c, true
}

type dedupedEmails struct {
	kept    []string
	repeats []string
}

func uniqueEmails(raw []string) dedupedEmails {
	out := dedupedEmails{kept: []string{}, repeats: []string{}}
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		e := strings.TrimSpace(r)
		if e == "" {
			continue
		}
		key := normalizeEmail(e)
		if _, ok := seen[key]; ok {
			out.repeats = append(out.repeats, e)
			continue
		}
		seen[key] = struct{}{}
		out.kept = append(out.kept, e)
	}
	return out
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
