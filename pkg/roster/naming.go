package roster

import "fmt"

// Target is the repository to provision for one roster entry.
type Target struct {
	RepoName   string   `json:"repo_name"`
	Members    []string `json:"members"`
	LineNumber int      `json:"line_number"`
	Solo       bool     `json:"solo"`
}

// NameCollisionError indicates two roster entries resolving to the same
// repository name. A collision is a roster-authoring bug, so the whole
// run is rejected before any remote call is made.
type NameCollisionError struct {
	Name       string
	FirstLine  int
	SecondLine int
}

// Error implements the error interface
func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("repository name %q is computed for both roster lines %d and %d", e.Name, e.FirstLine, e.SecondLine)
}

// BuildTargets applies the naming scheme to parsed roster entries and
// rejects the run if any two entries compute the same repository name.
//
// Solo entries are named {group}-{designation}-{username}. Group entries
// are numbered by their ordinal among group entries in file order, offset
// by one: the first group entry in a file gets g2, the second g3. Names
// published in earlier terms already use this numbering, so it stays.
func BuildTargets(designation, groupName string, entries []Entry) ([]Target, error) {
	targets := make([]Target, 0, len(entries))
	firstLine := make(map[string]int, len(entries))
	groupOrdinal := 0

	for _, entry := range entries {
		var repoName string
		if entry.Solo() {
			repoName = fmt.Sprintf("%s-%s-%s", groupName, designation, entry.Usernames[0])
		} else {
			groupOrdinal++
			repoName = fmt.Sprintf("%s-%s-g%d", groupName, designation, groupOrdinal+1)
		}

		if line, exists := firstLine[repoName]; exists {
			return nil, &NameCollisionError{
				Name:       repoName,
				FirstLine:  line,
				SecondLine: entry.LineNumber,
			}
		}
		firstLine[repoName] = entry.LineNumber

		targets = append(targets, Target{
			RepoName:   repoName,
			Members:    entry.Usernames,
			LineNumber: entry.LineNumber,
			Solo:       entry.Solo(),
		})
	}

	return targets, nil
}
