package domain

// MinSupportedVersion is the oldest presets file schema this tool accepts.
// Version 1 files are rejected outright before any resolution is attempted.
const MinSupportedVersion = 2

// Feature names a schema capability introduced after version 2.
type Feature string

const (
	// FeatureCondition gates the per-preset condition object.
	FeatureCondition Feature = "condition"
	// FeatureToolchainFile gates configure presets' toolchainFile field.
	FeatureToolchainFile Feature = "toolchainFile"
	// FeatureInstallDir gates configure presets' installDir field.
	FeatureInstallDir Feature = "installDir"
	// FeatureInclude gates the top-level include list.
	FeatureInclude Feature = "include"
	// FeatureFileDirMacro gates the ${fileDir} macro.
	FeatureFileDirMacro Feature = "fileDir macro"
	// FeaturePathListSepMacro gates the ${pathListSep} macro.
	FeaturePathListSepMacro Feature = "pathListSep macro"
	// FeatureTestOutputTruncation gates test presets' output.testOutputTruncation.
	FeatureTestOutputTruncation Feature = "testOutputTruncation"
	// FeaturePackagePresets gates the packagePresets list.
	FeaturePackagePresets Feature = "packagePresets"
	// FeatureWorkflowPresets gates the workflowPresets list.
	FeatureWorkflowPresets Feature = "workflowPresets"
	// FeatureTraceOptions gates configure presets' trace object.
	FeatureTraceOptions Feature = "trace"
)

var featureMinVersion = map[Feature]int{
	FeatureCondition:            3,
	FeatureToolchainFile:        3,
	FeatureInstallDir:           3,
	FeatureInclude:              4,
	FeatureFileDirMacro:         4,
	FeaturePathListSepMacro:     5,
	FeatureTestOutputTruncation: 5,
	FeaturePackagePresets:       6,
	FeatureWorkflowPresets:      6,
	FeatureTraceOptions:         7,
}

// FeatureMinVersion returns the schema version that introduced the feature.
func FeatureMinVersion(f Feature) int {
	v, ok := featureMinVersion[f]
	if !ok {
		return MinSupportedVersion
	}
	return v
}

// CheckVersion rejects schema versions below the supported floor.
func CheckVersion(version int) error {
	if version < MinSupportedVersion {
		err := With(ErrUnsupportedVersion, "version", version)
		return With(err, "min_version", MinSupportedVersion)
	}
	return nil
}

// CheckFeature validates that a version-gated field is legal under the
// declaring file's schema version.
func CheckFeature(f Feature, version int) error {
	minVersion := FeatureMinVersion(f)
	if version < minVersion {
		err := With(ErrVersionGatedField, "field", string(f))
		err = With(err, "version", version)
		return With(err, "required_version", minVersion)
	}
	return nil
}
