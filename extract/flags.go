package extract

import "markestedt/dropzip/platform"

const (
	FlagNewFolder    = "-n" // extract into a new folder per archive
	FlagDeleteSource = "-D" // delete the archive after a successful extraction
	FlagList         = "-l"
)

// Flags derives the tool flags for a drop from the held modifiers. Order is
// fixed: -n (Alt not held), -D (Shift held), then -l.
func Flags(mods platform.Modifier) []string {
	flags := make([]string, 0, 3)
	if !mods.Has(platform.ModAlt) {
		flags = append(flags, FlagNewFolder)
	}
	if mods.Has(platform.ModShift) {
		flags = append(flags, FlagDeleteSource)
	}
	return append(flags, FlagList)
}
