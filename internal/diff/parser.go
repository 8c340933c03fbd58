package diff

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/zjy-dev/diff-cover/internal/paths"
)

// hunkRe matches a unified diff hunk header and captures the start line
// and length of both sides, e.g. "@@ -10,2 +12,4 @@". An omitted length
// means 1.
var hunkRe = regexp.MustCompile(`^@@ -\d+(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// ParseUnified extracts added and modified line numbers (new-file
// numbering) from unified diff text into the given ChangeSet. Removed
// lines carry no line number in the new file and are skipped, as are
// deleted files (+++ /dev/null).
//
// The hunk lengths from the header decide where a hunk ends, so content
// lines that happen to start with "+++ " or "--- " are never confused
// with file headers.
func ParseUnified(diffText string, set *ChangeSet) error {
	scanner := bufio.NewScanner(strings.NewReader(diffText))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var currentPath string
	lineNo := 0
	oldRemain, newRemain := 0, 0
	inHunk := func() bool { return oldRemain > 0 || newRemain > 0 }

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case inHunk() && strings.HasPrefix(line, "+"):
			if currentPath != "" {
				set.AddLine(currentPath, lineNo)
			}
			lineNo++
			newRemain--

		case inHunk() && strings.HasPrefix(line, "-"):
			oldRemain--

		case inHunk() && strings.HasPrefix(line, " "):
			lineNo++
			oldRemain--
			newRemain--

		case strings.HasPrefix(line, "+++ "):
			target := strings.TrimSpace(strings.TrimPrefix(line, "+++ "))
			// Strip a trailing tab-separated timestamp some tools emit.
			if idx := strings.IndexByte(target, '\t'); idx >= 0 {
				target = target[:idx]
			}
			if target == "/dev/null" {
				currentPath = ""
			} else {
				currentPath = paths.Normalize(strings.TrimPrefix(target, "b/"))
			}

		case strings.HasPrefix(line, "--- "):
			// Old-file header, nothing to record.

		case strings.HasPrefix(line, "@@ "):
			m := hunkRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			start, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			lineNo = start
			oldRemain = hunkLength(m[1])
			newRemain = hunkLength(m[3])

		case strings.HasPrefix(line, `\`):
			// "\ No newline at end of file"

		case strings.HasPrefix(line, "diff "), strings.HasPrefix(line, "index "):
			oldRemain, newRemain = 0, 0
		}
	}

	return scanner.Err()
}

// hunkLength converts a captured hunk length, defaulting to 1 when the
// header omits it.
func hunkLength(s string) int {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return n
}
