package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/Sources/App/main.swift b/Sources/App/main.swift
index 83db48f..bf269f4 100644
--- a/Sources/App/main.swift
+++ b/Sources/App/main.swift
@@ -3,0 +4,2 @@ import Foundation
+func added() {}
+func alsoAdded() {}
@@ -10 +12 @@ struct App {
-    let old = 1
+    let new = 1
@@ -20,2 +21,0 @@ struct App {
-    func removed() {}
-    func removedToo() {}
diff --git a/Sources/App/gone.swift b/Sources/App/gone.swift
deleted file mode 100644
index 83db48f..0000000
--- a/Sources/App/gone.swift
+++ /dev/null
@@ -1 +0,0 @@
-struct Gone {}
diff --git a/Sources/App/new.swift b/Sources/App/new.swift
new file mode 100644
index 0000000..bf269f4
--- /dev/null
+++ b/Sources/App/new.swift
@@ -0,0 +1,3 @@
+struct New {
+    var x = 1
+}
`

func TestParseChangedLines(t *testing.T) {
	cs, err := ParseChangedLines("/repo", []byte(sampleDiff))
	require.NoError(t, err)

	assert.Equal(t, []string{"Sources/App/main.swift", "Sources/App/new.swift"}, cs.ChangedFiles())
	assert.Equal(t, []LineRange{{Start: 4, End: 5}, {Start: 12, End: 12}}, cs.Files["Sources/App/main.swift"])
	assert.Equal(t, []LineRange{{Start: 1, End: 3}}, cs.Files["Sources/App/new.swift"])
}

func TestChangeSetContains(t *testing.T) {
	cs, err := ParseChangedLines("/repo", []byte(sampleDiff))
	require.NoError(t, err)

	tests := []struct {
		name string
		file string
		line int
		want bool
	}{
		{name: "added line", file: "Sources/App/main.swift", line: 4, want: true},
		{name: "modified line", file: "Sources/App/main.swift", line: 12, want: true},
		{name: "untouched line", file: "Sources/App/main.swift", line: 8, want: false},
		{name: "absolute path", file: "/repo/Sources/App/new.swift", line: 2, want: true},
		{name: "outside root", file: "/elsewhere/Sources/App/new.swift", line: 2, want: false},
		{name: "deleted file", file: "Sources/App/gone.swift", line: 1, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cs.Contains(tt.file, tt.line))
		})
	}
}

func TestParseChangedLinesEmpty(t *testing.T) {
	cs, err := ParseChangedLines("/repo", nil)
	require.NoError(t, err)
	assert.Empty(t, cs.ChangedFiles())
}
