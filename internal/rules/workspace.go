package rules

// rulesAppleVersion pins the rules_apple release fetched by the generated
// WORKSPACE. The sha256 must match the release tarball.
const rulesAppleVersion = "3.5.1"

const workspaceContent = `workspace(name = "catalyst_workspace")

# Load Apple rules for building iOS/macOS apps
load("@bazel_tools//tools/build_defs/repo:http.bzl", "http_archive")

http_archive(
    name = "build_bazel_rules_apple",
    sha256 = "b4df908ec14868369021182ab191dbd1f40830c9b300650d5dc389e0b9266c8d",
    url = "https://github.com/bazelbuild/rules_apple/releases/download/` + rulesAppleVersion + `/rules_apple.` + rulesAppleVersion + `.tar.gz",
)

load(
    "@build_bazel_rules_apple//apple:repositories.bzl",
    "apple_rules_dependencies",
)

apple_rules_dependencies()

load(
    "@build_bazel_rules_swift//swift:repositories.bzl",
    "swift_rules_dependencies",
)

swift_rules_dependencies()

load(
    "@build_bazel_rules_swift//swift:extras.bzl",
    "swift_rules_extra_dependencies",
)

swift_rules_extra_dependencies()

load(
    "@build_bazel_apple_support//lib:repositories.bzl",
    "apple_support_dependencies",
)

apple_support_dependencies()

# Optional: rules_xcodeproj for generating Xcode projects from Bazel targets
# Uncomment the following to enable Xcode project generation:
#
# http_archive(
#     name = "com_github_buildbuddy_io_rules_xcodeproj",
#     sha256 = "CHECK LATEST RELEASE",
#     url = "https://github.com/MobileNativeFoundation/rules_xcodeproj/releases/download/VERSION/release.tar.gz",
# )
#
# load(
#     "@com_github_buildbuddy_io_rules_xcodeproj//xcodeproj:repositories.bzl",
#     "xcodeproj_rules_dependencies",
# )
#
# xcodeproj_rules_dependencies()
#
# Then add to your BUILD file:
# load("@com_github_buildbuddy_io_rules_xcodeproj//xcodeproj:defs.bzl", "xcodeproj")
#
# xcodeproj(
#     name = "xcodeproj",
#     project_name = "App",
#     targets = [":app"],
# )
`

const bazelrcContent = `# Build settings
build --apple_platform_type=ios
build --ios_minimum_os=15.0

# Use Xcode toolchain
build --apple_crosstool_top=@local_config_apple_cc//:toolchain
build --crosstool_top=@local_config_apple_cc//:toolchain
build --host_crosstool_top=@local_config_apple_cc//:toolchain

# Output settings
build --verbose_failures
build --announce_rc
`

// WorkspaceArtifacts returns the workspace-level files bazel needs at the
// root of projectDir: the WORKSPACE definition pinning rules_apple and a
// .bazelrc with the iOS build settings.
func WorkspaceArtifacts(projectDir string) []Artifact {
	return []Artifact{
		{Dir: projectDir, Basename: WorkspaceBasename, Contents: workspaceContent},
		{Dir: projectDir, Basename: BazelrcBasename, Contents: bazelrcContent},
	}
}
