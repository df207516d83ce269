package rules

import (
	"fmt"

	"github.com/catalyst-labs/catalyst/internal/tuist"
)

// infoPlistTemplate is the minimal manifest an ios_application bundle
// needs. Substitutions: executable name, bundle identifier, display name.
const infoPlistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>CFBundleDevelopmentRegion</key>
    <string>en</string>
    <key>CFBundleExecutable</key>
    <string>%s</string>
    <key>CFBundleIdentifier</key>
    <string>%s</string>
    <key>CFBundleInfoDictionaryVersion</key>
    <string>6.0</string>
    <key>CFBundleName</key>
    <string>%s</string>
    <key>CFBundlePackageType</key>
    <string>APPL</string>
    <key>CFBundleShortVersionString</key>
    <string>1.0</string>
    <key>CFBundleVersion</key>
    <string>1</string>
    <key>LSRequiresIPhoneOS</key>
    <true/>
    <key>UILaunchScreen</key>
    <dict/>
</dict>
</plist>
`

// InfoPlistBasename returns the manifest file name for an app target.
func InfoPlistBasename(targetName string) string {
	return targetName + "-Info.plist"
}

// InfoPlistArtifact renders the manifest for an application target.
func InfoPlistArtifact(dir string, t *tuist.Target) Artifact {
	return Artifact{
		Dir:      dir,
		Basename: InfoPlistBasename(t.Name),
		Contents: fmt.Sprintf(infoPlistTemplate, t.Name, t.BundleID, t.Name),
	}
}
