package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophportal/internal/netx"
)

// maxAvatarBytes caps uploaded images.
const maxAvatarBytes = 5 << 20

// uploadAvatar and downloadAvatar are test seams for the object storage
// transfers.
var (
	uploadAvatar   = netx.UploadToPresignedURL
	downloadAvatar = netx.DownloadFromPresignedURL
)

// Avatar handles "avatar upload <user_id> <file>" and
// "avatar download <user_id> <file>".
func (a *App) Avatar(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	if len(args) != 3 {
		return fmt.Errorf("usage: avatar upload|download <user_id> <file>")
	}
	action, id, path := args[0], args[1], args[2]

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	switch action {
	case "upload":
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if len(data) > maxAvatarBytes {
			return fmt.Errorf("file is larger than %d bytes", maxAvatarBytes)
		}

		u, err := a.client.AvatarUploadURL(ctx, id)
		if err != nil {
			return err
		}
		if err := uploadAvatar(ctx, u.URL, data); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Uploaded %s\n", u.Key)

	case "download":
		u, err := a.client.AvatarDownloadURL(ctx, id)
		if err != nil {
			return err
		}
		data, err := downloadAvatar(ctx, u.URL)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Saved %s to %s\n", u.Key, path)

	default:
		return fmt.Errorf("unknown avatar action %q", action)
	}

	return nil
}
