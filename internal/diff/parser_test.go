package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/subdir/file1.py b/subdir/file1.py
index 629e8ad..91b8c0a 100644
--- a/subdir/file1.py
+++ b/subdir/file1.py
@@ -3,0 +4,2 @@ def foo():
+    x = 1
+    y = 2
@@ -10 +12 @@ def bar():
-    return None
+    return x
diff --git a/newfile.py b/newfile.py
new file mode 100644
index 0000000..f2e41136
--- /dev/null
+++ b/newfile.py
@@ -0,0 +1,3 @@
+a = 1
+b = 2
+c = 3
diff --git a/deleted.py b/deleted.py
deleted file mode 100644
index e69de29..0000000
--- a/deleted.py
+++ /dev/null
@@ -1,2 +0,0 @@
-gone = True
-gone2 = True
`

func TestParseUnified(t *testing.T) {
	set := NewChangeSet()
	require.NoError(t, ParseUnified(sampleDiff, set))

	assert.Equal(t, []string{"newfile.py", "subdir/file1.py"}, set.Paths())
	assert.Equal(t, []int{4, 5, 12}, set.ChangedLines("subdir/file1.py"))
	assert.Equal(t, []int{1, 2, 3}, set.ChangedLines("newfile.py"))
	assert.False(t, set.Has("deleted.py"), "deleted files carry no new-file lines")
}

func TestParseUnified_ContextLines(t *testing.T) {
	// A diff produced without -U0 interleaves context lines.
	text := `--- a/a.py
+++ b/a.py
@@ -8,4 +8,6 @@
 context
 context
+added
 context
+added
 context
`
	set := NewChangeSet()
	require.NoError(t, ParseUnified(text, set))
	assert.Equal(t, []int{10, 12}, set.ChangedLines("a.py"))
}

func TestParseUnified_AddedLineStartingWithPlusPlus(t *testing.T) {
	// The added content "++ first" serializes as "+++ first", which must
	// be counted as a changed line, not taken for a file header.
	text := `--- a/a.py
+++ b/a.py
@@ -0,0 +1,2 @@
+++ first
+second
`
	set := NewChangeSet()
	require.NoError(t, ParseUnified(text, set))
	assert.Equal(t, []string{"a.py"}, set.Paths())
	assert.Equal(t, []int{1, 2}, set.ChangedLines("a.py"))
}

func TestParseUnified_BackToBackFilesWithoutGitHeaders(t *testing.T) {
	// Plain unified diffs have no "diff --git" separators, so only the
	// hunk lengths tell the parser the first file is done.
	text := `--- a/a.py
+++ b/a.py
@@ -1 +1 @@
-old
+new
--- a/b.py
+++ b/b.py
@@ -2,0 +3 @@
+added
`
	set := NewChangeSet()
	require.NoError(t, ParseUnified(text, set))
	assert.Equal(t, []int{1}, set.ChangedLines("a.py"))
	assert.Equal(t, []int{3}, set.ChangedLines("b.py"))
}

func TestParseUnified_NoNewlineMarker(t *testing.T) {
	text := `--- a/a.py
+++ b/a.py
@@ -1 +1 @@
-old
+new
\ No newline at end of file
`
	set := NewChangeSet()
	require.NoError(t, ParseUnified(text, set))
	assert.Equal(t, []int{1}, set.ChangedLines("a.py"))
}

func TestParseUnified_Empty(t *testing.T) {
	set := NewChangeSet()
	require.NoError(t, ParseUnified("", set))
	assert.Empty(t, set.Paths())
}

func TestChangeSet_MergeUnionsLines(t *testing.T) {
	a := NewChangeSet()
	a.AddLine("x.py", 3)
	a.AddLine("x.py", 1)

	b := NewChangeSet()
	b.AddLine("x.py", 3)
	b.AddLine("x.py", 7)
	b.AddLine("y.py", 2)

	a.Merge(b)
	assert.Equal(t, []int{1, 3, 7}, a.ChangedLines("x.py"), "sorted, deduplicated")
	assert.Equal(t, []string{"x.py", "y.py"}, a.Paths())
}

func TestChangeSet_UnknownPath(t *testing.T) {
	set := NewChangeSet()
	assert.Nil(t, set.ChangedLines("missing.py"))
	assert.False(t, set.Has("missing.py"))
}
