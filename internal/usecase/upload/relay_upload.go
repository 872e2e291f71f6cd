package upload

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/model"
	"github.com/fhuszti/upload-relay-go/internal/session"
)

const defaultContentType = "application/octet-stream"

// ledgerTimeout bounds each ledger write made while the caller waits for its link.
var ledgerTimeout = 2 * time.Second

type Config struct {
	Bucket  string
	LinkTTL time.Duration
}

type RelayInput struct {
	Body        io.Reader
	Size        int64
	Filename    string
	ContentType string
	Label       string
}

type RelayOutput struct {
	State  State
	Object model.StoredObject
	Link   model.SignedLink
}

type Relayer struct {
	keys       KeyDeriver
	strg       Storage
	signer     Signer
	dispatcher NotificationDispatcher
	ledger     Ledger
	idGen      func() model.UploadID
	cfg        Config
}

func NewRelayer(
	keys KeyDeriver,
	strg Storage,
	signer Signer,
	dispatcher NotificationDispatcher,
	ledger Ledger,
	idGen func() model.UploadID,
	cfg Config,
) *Relayer {
	if cfg.LinkTTL <= 0 {
		cfg.LinkTTL = DefaultLinkTTL
	}
	return &Relayer{
		keys:       keys,
		strg:       strg,
		signer:     signer,
		dispatcher: dispatcher,
		ledger:     ledger,
		idGen:      idGen,
		cfg:        cfg,
	}
}

// Relay stores one file, signs a link to it and hands the announcement to the dispatcher.
// sess must come from session.Manager.Verify.
func (r *Relayer) Relay(ctx context.Context, sess session.Authenticated, in RelayInput) (*RelayOutput, error) {
	if !sess.Valid() {
		return r.fail(session.ErrUnauthenticated)
	}
	if in.Body == nil {
		return r.fail(ErrNoFile)
	}
	if r.cfg.Bucket == "" {
		logger.Error(ctx, "❌  storage bucket is not configured, refusing upload", "filename", in.Filename)
		return r.fail(ErrConfiguration)
	}

	key, err := r.keys.Derive(in.Filename)
	if err != nil {
		logger.Warn(ctx, "⚠️  rejected upload filename", "filename", in.Filename, "err", err)
		return r.fail(fmt.Errorf("%w: %w", ErrNoFile, err))
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	logger.Info(ctx, "storing upload", "bucket", r.cfg.Bucket, "key", key, "content_type", contentType, "size", in.Size)
	confirmed, err := r.strg.SaveFile(ctx, r.cfg.Bucket, key, in.Body, in.Size, contentType)
	if err != nil {
		sErr := &StorageError{Bucket: r.cfg.Bucket, Key: key, ContentType: contentType, Err: err}
		logger.Error(ctx, "❌  storing upload failed", "bucket", r.cfg.Bucket, "key", key, "content_type", contentType, "err", err)
		return r.fail(sErr)
	}

	obj := model.StoredObject{Bucket: r.cfg.Bucket, Key: confirmed, ContentType: contentType, SizeBytes: in.Size}
	rec := r.record(ctx, obj, in.Label)

	link, err := r.signer.Sign(ctx, obj.Bucket, obj.Key, r.cfg.LinkTTL)
	if err != nil {
		logger.Error(ctx, "🚨 object stored but signing failed", "bucket", obj.Bucket, "key", obj.Key, "err", err)
		r.mark(ctx, rec, model.UploadStatusSignFailed)
		out, fErr := r.fail(err)
		out.Object = obj
		return out, fErr
	}
	r.mark(ctx, rec, model.UploadStatusSigned)

	r.dispatcher.Dispatch(ctx, model.NewUploadNotification(in.Label, obj.Key, link.URL))

	logger.Info(ctx, "✅  upload relayed", "bucket", obj.Bucket, "key", obj.Key, "expires_at", link.ExpiresAt)
	return &RelayOutput{State: StateResponding, Object: obj, Link: link}, nil
}

func (r *Relayer) fail(err error) (*RelayOutput, error) {
	return &RelayOutput{State: StateOf(err)}, err
}

// ledgerContext detaches from the request, since the object is already stored, but never
// lets the write run longer than ledgerTimeout.
func ledgerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), ledgerTimeout)
}

func (r *Relayer) record(ctx context.Context, obj model.StoredObject, label string) *model.Upload {
	u := &model.Upload{
		ID:          r.idGen(),
		ObjectKey:   obj.Key,
		Bucket:      obj.Bucket,
		ContentType: obj.ContentType,
		SizeBytes:   obj.SizeBytes,
		Label:       label,
		Status:      model.UploadStatusStored,
	}
	lctx, cancel := ledgerContext(ctx)
	defer cancel()
	if err := r.ledger.Record(lctx, u); err != nil {
		logger.Warn(ctx, "⚠️  could not record upload in ledger", "key", obj.Key, "err", err)
		return nil
	}
	return u
}

func (r *Relayer) mark(ctx context.Context, u *model.Upload, status model.UploadStatus) {
	if u == nil {
		return
	}
	lctx, cancel := ledgerContext(ctx)
	defer cancel()
	if err := r.ledger.UpdateStatus(lctx, u.ID, status); err != nil {
		logger.Warn(ctx, "⚠️  could not update upload status in ledger", "key", u.ObjectKey, "status", status, "err", err)
		return
	}
	u.Status = status
}
