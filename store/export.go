package store

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/encoding"
	"github.com/effective-security/xlog"
)

// Export writes the current chat with its messages to w
func Export(ctx context.Context, st MessageStore, w io.Writer, mode encoding.Mode) error {
	enc, err := encoding.NewEncoder(mode)
	if err != nil {
		return err
	}
	info, err := st.GetChatInfo(ctx, "")
	if err != nil {
		return err
	}
	if info == nil {
		return errors.New("chat not found")
	}

	bs, err := enc.Marshal(info)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", mode)
	}
	_, err = w.Write(bs)
	return errors.WithStack(err)
}

// ExportFile writes the current chat to the file,
// the format is detected by the file extension.
func ExportFile(ctx context.Context, st MessageStore, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	if err = Export(ctx, st, f, encoding.ModeFromPath(file)); err != nil {
		return err
	}
	logger.ContextKV(ctx, xlog.INFO, "status", "exported", "file", file)
	return nil
}

// Import decodes the chat previously created by Export
func Import(data []byte, mode encoding.Mode) (*ChatInfo, error) {
	info := new(ChatInfo)
	if err := encoding.Decode(mode, data, info); err != nil {
		return nil, err
	}
	return info, nil
}

// ImportFile decodes the chat exported by ExportFile,
// the format is detected by the file extension.
func ImportFile(file string) (*ChatInfo, error) {
	bs, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return Import(bs, encoding.ModeFromPath(file))
}
