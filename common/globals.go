package common

// DooVersion is the current Doo version as a string.
const DooVersion string = "0.1.0"

// DooManifestName is the name for Doo project manifest files.
const DooManifestName string = "doo.toml"

// DooFileExt is the file extension for a Doo source file.
const DooFileExt string = ".doo"

// DooRootFileName is the name of the source file containing the entry point of
// a Doo project.
const DooRootFileName string = "main.doo"
