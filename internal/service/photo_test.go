package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"crm-backend/internal/auth"
	"crm-backend/internal/models"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresigner struct {
	input   *s3.PutObjectInput
	expires time.Duration
	err     error
}

func (f *fakePresigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	opts := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	return &v4.PresignedHTTPRequest{URL: "https://signed.example/" + *params.Key, Method: "PUT"}, nil
}

func TestPhotoService_NewUploadURL(t *testing.T) {
	fake := &fakePresigner{}
	svc := NewPhotoServiceWithPresigner(fake, "crm-fotos", "sa-east-1")
	caller := auth.Identity{ID: 2, Perfil: models.PerfilCliente}

	up, err := svc.NewUploadURL(context.Background(), caller)
	require.NoError(t, err)

	require.NotNil(t, fake.input)
	assert.Equal(t, "crm-fotos", *fake.input.Bucket)
	assert.True(t, strings.HasPrefix(*fake.input.Key, "fotos/2/"))
	assert.Equal(t, photoUploadLifetime, fake.expires)
	assert.Equal(t, "https://signed.example/"+*fake.input.Key, up.UploadURL)
	assert.Equal(t, "https://crm-fotos.s3.sa-east-1.amazonaws.com/"+*fake.input.Key, up.Foto)

	again, err := svc.NewUploadURL(context.Background(), caller)
	require.NoError(t, err)
	assert.NotEqual(t, up.Foto, again.Foto)
}

func TestPhotoService_Errors(t *testing.T) {
	var disabled *PhotoService
	_, err := disabled.NewUploadURL(context.Background(), auth.Identity{ID: 1})
	assert.ErrorIs(t, err, ErrUnavailable)

	svc := NewPhotoServiceWithPresigner(&fakePresigner{err: errors.New("sem credenciais")}, "b", "r")
	_, err = svc.NewUploadURL(context.Background(), auth.Identity{ID: 1})
	assert.Error(t, err)
}
