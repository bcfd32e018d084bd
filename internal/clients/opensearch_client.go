package clients

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/opensearch-project/opensearch-go/v4"
)

const OPENSEARCH_SERVICE = "es"

type OpenSearchConfig struct {
	Endpoint string
	Username string
	Password string
	// SigV4 signs requests with the default AWS credentials instead of
	// basic auth, for managed domains.
	SigV4    bool
	AWS      AWSConfig
}

func NewOpenSearchClient(ctx context.Context, cfg OpenSearchConfig) (*opensearch.Client, error) {
	osCfg := opensearch.Config{
		Addresses: []string{cfg.Endpoint},
	}

	if cfg.SigV4 {
		awsCfg, err := LoadAWSConfig(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
		osCfg.Transport = NewSigV4Transport(awsCfg.Credentials, v4.NewSigner(), awsCfg.Region, OPENSEARCH_SERVICE)
	} else {
		osCfg.Username = cfg.Username
		osCfg.Password = cfg.Password
	}

	client, err := opensearch.NewClient(osCfg)
	if err != nil {
		return nil, fmt.Errorf("[OpenSearchClient] failed to initialize OpenSearch client: %w", err)
	}

	slog.Info("[OpenSearchClient] OpenSearch client initialized",
		slog.String("endpoint", cfg.Endpoint),
		slog.Bool("sigv4", cfg.SigV4))
	return client, nil
}

type sigV4Transport struct {
	credentials aws.CredentialsProvider
	signer      *v4.Signer
	region      string
	service     string
	next        http.RoundTripper
	now         func() time.Time
}

func NewSigV4Transport(creds aws.CredentialsProvider, signer *v4.Signer, region string, service string) http.RoundTripper {
	return &sigV4Transport{
		credentials: creds,
		signer:      signer,
		region:      region,
		service:     service,
		next:        http.DefaultTransport,
		now:         time.Now,
	}
}

func (t *sigV4Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	creds, err := t.credentials.Retrieve(req.Context())
	if err != nil {
		return nil, err
	}

	signedReq := req.Clone(req.Context())
	signedReq.Header.Del("Authorization")

	payloadHash, err := hashBody(signedReq)
	if err != nil {
		return nil, err
	}

	err = t.signer.SignHTTP(
		req.Context(),
		creds,
		signedReq,
		payloadHash,
		t.service,
		t.region,
		t.now(),
	)
	if err != nil {
		return nil, err
	}

	return t.next.RoundTrip(signedReq)
}

// hashBody returns the hex sha256 of the request body and leaves the body
// readable for the next transport.
func hashBody(req *http.Request) (string, error) {
	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return "", err
		}
		req.Body.Close()
		body = b
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}
