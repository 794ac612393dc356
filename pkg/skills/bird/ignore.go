package bird

import (
	"encoding/json"
	"sort"

	"github.com/devexpertio/skills/pkg/skills/statefile"
)

// IgnoreStore tracks mention IDs dismissed per account, stored as
// map[username]map[id]true. Earlier versions stored per-user ID lists, or a
// flat list of IDs without an account; loading migrates the list shapes (the
// accountless one under the "_legacy" key) and saving always writes the map
// form.
type IgnoreStore struct {
	byUser map[string]map[string]bool
}

const legacyUser = "_legacy"

// LoadIgnoreStore reads the store from path. A missing or unreadable file
// yields an empty store.
func LoadIgnoreStore(path string) *IgnoreStore {
	s := &IgnoreStore{byUser: map[string]map[string]bool{}}

	var raw json.RawMessage
	if !statefile.Load(path, &raw) {
		return s
	}

	var byUser map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byUser); err == nil {
		for user, entry := range byUser {
			var set map[string]bool
			if err := json.Unmarshal(entry, &set); err == nil {
				for id, ignored := range set {
					if ignored {
						s.Ignore(user, []string{id})
					}
				}
				continue
			}
			var ids []string
			if err := json.Unmarshal(entry, &ids); err == nil {
				s.Ignore(user, ids)
			}
		}
		return s
	}

	var legacy []string
	if err := json.Unmarshal(raw, &legacy); err == nil {
		s.Ignore(legacyUser, legacy)
	}
	return s
}

// LoadIgnoredIDs loads the store and returns the ignored set for username,
// merged with any legacy entries.
func LoadIgnoredIDs(path, username string) map[string]bool {
	s := LoadIgnoreStore(path)
	out := map[string]bool{}
	for id := range s.byUser[username] {
		out[id] = true
	}
	for id := range s.byUser[legacyUser] {
		out[id] = true
	}
	return out
}

// Ignore marks ids as dismissed for username.
func (s *IgnoreStore) Ignore(username string, ids []string) {
	if len(ids) == 0 {
		return
	}
	set := s.byUser[username]
	if set == nil {
		set = map[string]bool{}
		s.byUser[username] = set
	}
	for _, id := range ids {
		if id != "" {
			set[id] = true
		}
	}
}

// IgnoredIDs returns the sorted ids dismissed for username.
func (s *IgnoreStore) IgnoredIDs(username string) []string {
	var ids []string
	for id := range s.byUser[username] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Save persists the store to path in the map form.
func (s *IgnoreStore) Save(path string) error {
	return statefile.Save(path, s.byUser)
}
