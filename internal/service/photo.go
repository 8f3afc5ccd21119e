package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"crm-backend/internal/auth"
	"crm-backend/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Validade da URL de upload
const photoUploadLifetime = 15 * time.Minute

// PutPresigner é a parte do s3.PresignClient usada aqui
type PutPresigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// PhotoUpload é devolvido ao cliente: ele faz PUT em UploadURL e grava Foto no perfil
type PhotoUpload struct {
	UploadURL string `json:"uploadUrl"`
	Foto      string `json:"foto"`
}

// PhotoService gera URLs pré-assinadas para as fotos de perfil
type PhotoService struct {
	presigner  PutPresigner
	bucketName string
	region     string
}

// NewPhotoService cria o serviço a partir de um cliente S3
func NewPhotoService(s3Client *s3.Client, bucketName, region string) *PhotoService {
	// O PresignClient é o que realmente cria as URLs
	return NewPhotoServiceWithPresigner(s3.NewPresignClient(s3Client), bucketName, region)
}

// NewPhotoServiceWithPresigner permite injetar o presigner
func NewPhotoServiceWithPresigner(p PutPresigner, bucketName, region string) *PhotoService {
	return &PhotoService{presigner: p, bucketName: bucketName, region: region}
}

// NewUploadURL gera a URL de upload da foto do caller.
// Formato da chave: fotos/ACCOUNT_ID/UUID
func (s *PhotoService) NewUploadURL(ctx context.Context, caller auth.Identity) (*PhotoUpload, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: upload de fotos", ErrUnavailable)
	}

	objectKey := fmt.Sprintf("fotos/%d/%s", caller.ID, uuid.New().String())

	request, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(photoUploadLifetime))
	if err != nil {
		logger.From(ctx).Error("erro ao gerar presigned PUT URL",
			logger.AccountID(caller.ID),
			logger.Err(err),
		)
		return nil, fmt.Errorf("falha ao gerar URL de upload")
	}

	return &PhotoUpload{
		UploadURL: request.URL,
		Foto:      s.objectURL(objectKey),
	}, nil
}

func (s *PhotoService) objectURL(key string) string {
	u := url.URL{
		Scheme: "https",
		Host:   fmt.Sprintf("%s.s3.%s.amazonaws.com", s.bucketName, s.region),
		Path:   "/" + key,
	}
	return u.String()
}
