package plan

import (
	"embed"
	"strconv"
	"strings"

	"go.trai.ch/eject/internal/core/domain"
)

//go:embed assets
var assets embed.FS

func asset(name string) string {
	data, err := assets.ReadFile("assets/" + name)
	if err != nil {
		// Assets are compiled in; a missing one is a build defect.
		panic(err)
	}
	return string(data)
}

// storeUtil defines esyGetStorePathFromPrefix, shared by bin/get-store-path and command-env.
func storeUtil() string {
	return strings.NewReplacer(
		"@STORE_VERSION@", domain.StoreVersion,
		"@STORE_PATH_LENGTH@", strconv.Itoa(domain.StorePathLength),
	).Replace(asset("store-util.sh"))
}

func getStorePathScript() string {
	var builder strings.Builder
	builder.WriteString("#!/bin/bash\n\nset -e\nset -o pipefail\n\n")
	builder.WriteString(storeUtil())
	builder.WriteString("\nesyGetStorePathFromPrefix \"$1\"\n")
	return builder.String()
}

// staticFiles are emitted verbatim into every plan.
func staticFiles() []domain.File {
	return []domain.File{
		{Path: []string{domain.BinDirName, "render-env"}, Contents: asset("render-env"), Executable: true},
		{Path: []string{domain.BinDirName, "get-store-path"}, Contents: getStorePathScript(), Executable: true},
		{Path: []string{domain.BinDirName, "realpath.c"}, Contents: asset("realpath.c")},
		{Path: []string{domain.BinDirName, "fastreplacestring.cpp"}, Contents: asset("fastreplacestring.cpp")},
		{Path: []string{domain.BinDirName, "runtime.sh"}, Contents: asset("runtime.sh")},
	}
}
