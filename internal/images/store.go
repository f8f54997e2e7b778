package images

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// ErrEmptyID is returned by AddImage when no id is given.
var ErrEmptyID = errors.New("images: image id is required")

// TableAPI is the subset of the DynamoDB client used by Store.
type TableAPI interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store reads and writes image records.
type Store struct {
	client      TableAPI
	table       string
	clock       func() time.Time
	logger      *slog.Logger
	billingMode types.BillingMode
	waitActive  bool
	maxWait     time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source for record timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithBillingMode sets the billing mode of a newly created table.
// PROVISIONED tables get one read and one write capacity unit.
func WithBillingMode(mode string) Option {
	return func(s *Store) { s.billingMode = types.BillingMode(strings.ToUpper(mode)) }
}

// WithWaitForActive makes EnsureTable block until a created table is
// ACTIVE, for at most maxWait.
func WithWaitForActive(maxWait time.Duration) Option {
	return func(s *Store) {
		s.waitActive = true
		s.maxWait = maxWait
	}
}

// NewStore returns a Store for table. An empty table name selects DefaultTable.
func NewStore(client TableAPI, table string, opts ...Option) *Store {
	if table == "" {
		table = DefaultTable
	}
	s := &Store{
		client:      client,
		table:       table,
		clock:       time.Now,
		logger:      slog.New(slog.DiscardHandler),
		billingMode: types.BillingModePayPerRequest,
		maxWait:     5 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the table name.
func (s *Store) Table() string {
	return s.table
}

// EnsureTable creates the table when it does not exist and reports whether
// it did. A table in any status, including CREATING, counts as existing.
func (s *Store) EnsureTable(ctx context.Context) (bool, error) {
	out, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.table)})
	if err == nil {
		var status types.TableStatus
		if out.Table != nil {
			status = out.Table.TableStatus
		}
		s.logger.Debug("table exists", "table", s.table, "status", string(status))
		return false, nil
	}
	if !isNotFound(err) {
		return false, fmt.Errorf("describing table %s: %w", s.table, err)
	}

	s.logger.Info("creating table", "table", s.table, "billing_mode", string(s.billingMode))
	if _, err := s.client.CreateTable(ctx, s.createTableInput()); err != nil {
		if isInUse(err) {
			s.logger.Debug("table created concurrently", "table", s.table)
			return false, nil
		}
		return false, fmt.Errorf("creating table %s: %w", s.table, err)
	}

	if s.waitActive {
		waiter := dynamodb.NewTableExistsWaiter(s.client)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.table)}, s.maxWait); err != nil {
			return true, fmt.Errorf("waiting for table %s: %w", s.table, err)
		}
		s.logger.Info("table active", "table", s.table)
	}
	return true, nil
}

func (s *Store) createTableInput() *dynamodb.CreateTableInput {
	in := &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		AttributeDefinitions: []types.AttributeDefinition{{
			AttributeName: aws.String(AttrID),
			AttributeType: types.ScalarAttributeTypeS,
		}},
		KeySchema: []types.KeySchemaElement{{
			AttributeName: aws.String(AttrID),
			KeyType:       types.KeyTypeHash,
		}},
		BillingMode: s.billingMode,
	}
	if s.billingMode == types.BillingModeProvisioned {
		in.ProvisionedThroughput = &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(1),
			WriteCapacityUnits: aws.Int64(1),
		}
	}
	return in
}

// AddImage writes one record stamped with the current time. A record with
// the same id is overwritten.
func (s *Store) AddImage(ctx context.Context, id, name, uploadURL, storageURL string) (Image, error) {
	if strings.TrimSpace(id) == "" {
		return Image{}, ErrEmptyID
	}

	img := Image{
		ID:         id,
		Name:       name,
		UploadURL:  uploadURL,
		StorageURL: storageURL,
		CreatedAt:  NewTimestamp(s.clock()),
	}
	item, err := attributevalue.MarshalMap(img)
	if err != nil {
		return Image{}, fmt.Errorf("encoding image %s: %w", id, err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return Image{}, fmt.Errorf("putting image %s: %w", id, err)
	}

	s.logger.Debug("image recorded", "table", s.table, "id", id)
	return img, nil
}

// ListImages scans the whole table, following continuation keys. Order is
// unspecified.
func (s *Store) ListImages(ctx context.Context) ([]Image, error) {
	var out []Image
	pages := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{TableName: aws.String(s.table)})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scanning table %s: %w", s.table, err)
		}
		var batch []Image
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("decoding images: %w", err)
		}
		out = append(out, batch...)
	}
	return out, nil
}

func isNotFound(err error) bool {
	var nf *types.ResourceNotFoundException
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException"
}

func isInUse(err error) bool {
	var inUse *types.ResourceInUseException
	if errors.As(err, &inUse) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceInUseException"
}
