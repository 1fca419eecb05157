package shellcmd

import (
	"path"

	"github.com/m-mizutani/webship/pkg/domain/model"
)

// StagingDir is the per-deployment directory an archive is unpacked into
func StagingDir(id string) string {
	return ".webship-" + id
}

// ReceiveFile stores the session's stdin at dst
func ReceiveFile(dst string) string {
	return "cat > " + quote(dst)
}

// VerifyChecksum checks an uploaded archive against its local SHA-256 sum
func VerifyChecksum(dir, file, sum string) string {
	return and("cd "+quote(dir), "echo "+quote(sum+"  "+file)+" | sha256sum -c -")
}

// Unpack extracts the uploaded archive through a staging directory and
// replaces any previous copy of the same release.
func Unpack(dir string, r model.Release, stagingID string) string {
	staging := StagingDir(stagingID)
	return and(
		"cd "+quote(dir),
		"mkdir -p "+quote(staging),
		"tar xzf "+quote(r.Tarball())+" -C "+quote(staging),
		"rm -rf "+quote(r.Name()),
		"mv "+quote(path.Join(staging, r.Project))+" "+quote(r.Name()),
		"rm -rf "+quote(staging)+" "+quote(r.Tarball()),
	)
}

// LinkCurrent points <dir>/<project>-current at the release
func LinkCurrent(dir string, r model.Release) string {
	return "ln -sfn " + quote(path.Join(dir, r.Name())) + " " + quote(path.Join(dir, r.Project+CurrentSuffix))
}

// PostDeploy runs a user command from the release directory
func PostDeploy(dir string, r model.Release, cmd string) string {
	return and("cd "+quote(path.Join(dir, r.Name())), cmd)
}
