package classpath

import (
	"bufio"
	"io"
	"regexp"

	"github.com/cockroachdb/errors"
)

var classListName = regexp.MustCompile(`[\w.]+`)

// ParseClassList reads a class list, as copied from a javadoc class tree
// page: the first dotted identifier on each line names a class. Lines
// without one are ignored, duplicates are dropped.
func ParseClassList(r io.Reader) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := classListName.FindString(scanner.Text())
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read class list")
	}
	return names, nil
}
