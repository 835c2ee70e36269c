package logger

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorEntry is one link of an error chain: its message plus any structured
// metadata attached to it.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// metadataer matches the Metadata() accessor provided by zerr.Error.
type metadataer interface {
	Metadata() map[string]any
}

// collectErrorEntries walks an error chain and collects one entry per zerr
// error. A message-less zerr error exists only to carry metadata for its
// cause, so its pairs fold into the cause's entry instead of producing a
// blank one. A non-zerr error terminates the walk with its full Error() text.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var pending map[string]any
	current := err

	for current != nil {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{
				Message:  current.Error(),
				Metadata: foldMetadata(nil, pending),
			})
			break
		}
		md, _ := current.(metadataer)
		next := errors.Unwrap(current)
		if m.Message() == "" && next != nil {
			if md != nil {
				pending = foldMetadata(pending, md.Metadata())
			}
			current = next
			continue
		}
		entry := ErrorEntry{Message: m.Message()}
		if md != nil {
			entry.Metadata = md.Metadata()
		}
		entry.Metadata = foldMetadata(entry.Metadata, pending)
		pending = nil
		entries = append(entries, entry)
		current = next
	}
	return entries
}

// foldMetadata copies src pairs into dst without overwriting existing keys.
func foldMetadata(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, value := range src {
		if _, ok := dst[key]; !ok {
			dst[key] = value
		}
	}
	return dst
}

// formatErrorEntries renders a collected chain hierarchically: the main error
// first, then its causes under a "Caused by:" header, metadata key-sorted
// beneath each message.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			lines = append(lines, metadataLines(entry.Metadata, "       ")...)
			continue
		}
		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
		lines = append(lines, metadataLines(entry.Metadata, "      ")...)
	}
	return strings.Join(lines, "\n")
}

func metadataLines(metadata map[string]any, indent string) []string {
	if len(metadata) == 0 {
		return nil
	}
	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, fmt.Sprintf("%s%s: %v", indent, key, metadata[key]))
	}
	return out
}
