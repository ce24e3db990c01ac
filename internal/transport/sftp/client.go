package sftp

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"ordercli/internal/config"
	apperrors "ordercli/internal/errors"
)

// FileInfo describes one remote file in a directory listing
type FileInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Client wraps one SFTP session against the supplier file server. It is
// safe for concurrent use: pkg/sftp multiplexes outstanding requests
// over the single session, so parallel downloads share one client.
type Client struct {
	cfg    config.SFTPConfig
	conn   *ssh.Client
	client *sftp.Client
	logger *slog.Logger
}

// Connect dials the configured host and opens an SFTP session over it
func Connect(cfg config.SFTPConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "sftp"))

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	sshCfg := &ssh.ClientConfig{
		User: cfg.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(cfg.Password),
		},
		// The supplier file servers sit on the shop LAN and rotate
		// keys on every firmware update, so host keys are not pinned.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         cfg.DialTimeout,
	}

	conn, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeTransport,
			fmt.Sprintf("dial %s", addr), err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, apperrors.NewAppError(apperrors.ErrTypeTransport,
			"open sftp session", err)
	}

	logger.Info("sftp session open",
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
		slog.String("remote_path", cfg.RemotePath))

	return &Client{cfg: cfg, conn: conn, client: client, logger: logger}, nil
}

// Alive reports whether the session still answers requests. A file
// operation can fail for file-level reasons (missing path, permissions)
// while the session stays usable; callers probe before discarding the
// connection.
func (c *Client) Alive() bool {
	_, err := c.client.Getwd()
	return err == nil
}

// Close tears down the session and the underlying connection
func (c *Client) Close() error {
	if err := c.client.Close(); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}

// ListFiles lists the regular files under remotePath, newest first.
// Directories (the archive folder among them) are skipped.
func (c *Client) ListFiles(remotePath string) ([]FileInfo, error) {
	entries, err := c.client.ReadDir(remotePath)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeTransport,
			fmt.Sprintf("list %s", remotePath), err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Size:    entry.Size(),
			ModTime: entry.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})

	c.logger.Debug("remote directory listed",
		slog.String("path", remotePath),
		slog.Int("file_count", len(files)))

	return files, nil
}

// DownloadFile copies one remote file to localPath, creating parent
// directories as needed.
func (c *Client) DownloadFile(remotePath, localPath string) error {
	src, err := c.client.Open(remotePath)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrTypeTransport,
			fmt.Sprintf("open remote %s", remotePath), err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("create local directory: %w", err)
	}

	dst, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create local file: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, src)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrTypeTransport,
			fmt.Sprintf("download %s", remotePath), err)
	}

	c.logger.Info("file downloaded",
		slog.String("remote", remotePath),
		slog.String("local", localPath),
		slog.Int64("bytes", n))

	return nil
}

// UploadFile copies a local file to remotePath
func (c *Client) UploadFile(localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open local file: %w", err)
	}
	defer src.Close()

	dst, err := c.client.Create(remotePath)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrTypeTransport,
			fmt.Sprintf("create remote %s", remotePath), err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, src)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrTypeTransport,
			fmt.Sprintf("upload %s", remotePath), err)
	}

	c.logger.Info("file uploaded",
		slog.String("local", localPath),
		slog.String("remote", remotePath),
		slog.Int64("bytes", n))

	return nil
}

// MoveToArchive renames a processed remote file into the archive folder
// next to it, creating the folder on first use. Archived files no
// longer show up in listings.
func (c *Client) MoveToArchive(remotePath string) error {
	dir := path.Dir(remotePath)
	archiveDir := path.Join(dir, c.cfg.ArchiveFolder)

	if err := c.client.MkdirAll(archiveDir); err != nil {
		return apperrors.NewAppError(apperrors.ErrTypeTransport,
			fmt.Sprintf("create archive dir %s", archiveDir), err)
	}

	target := path.Join(archiveDir, path.Base(remotePath))
	if err := c.client.Rename(remotePath, target); err != nil {
		return apperrors.NewAppError(apperrors.ErrTypeTransport,
			fmt.Sprintf("archive %s", remotePath), err)
	}

	c.logger.Info("file archived",
		slog.String("remote", remotePath),
		slog.String("archive", target))

	return nil
}
