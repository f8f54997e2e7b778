package images

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTable is an in-memory TableAPI keyed by ImageID.
type fakeTable struct {
	exists      bool
	status      types.TableStatus
	items       map[string]map[string]types.AttributeValue
	pageSize    int
	describeErr error
	createErr   error
	putErr      error

	createInput *dynamodb.CreateTableInput
	describes   int
	scans       int
}

func newFakeTable() *fakeTable {
	return &fakeTable{items: map[string]map[string]types.AttributeValue{}}
}

func (f *fakeTable) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.describes++
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	if !f.exists {
		return nil, &types.ResourceNotFoundException{Message: aws.String("Requested resource not found")}
	}
	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{
		TableName:   in.TableName,
		TableStatus: f.status,
	}}, nil
}

func (f *fakeTable) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.createInput = in
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.exists = true
	f.status = types.TableStatusActive
	return &dynamodb.CreateTableOutput{TableDescription: &types.TableDescription{
		TableName:   in.TableName,
		TableStatus: types.TableStatusCreating,
	}}, nil
}

func (f *fakeTable) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	id := in.Item[AttrID].(*types.AttributeValueMemberS).Value
	f.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeTable) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scans++
	ids := make([]string, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	start := 0
	if in.ExclusiveStartKey != nil {
		last := in.ExclusiveStartKey[AttrID].(*types.AttributeValueMemberS).Value
		start = sort.SearchStrings(ids, last) + 1
	}
	end := len(ids)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}

	out := &dynamodb.ScanOutput{}
	for _, id := range ids[start:end] {
		out.Items = append(out.Items, f.items[id])
	}
	if end < len(ids) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			AttrID: &types.AttributeValueMemberS{Value: ids[end-1]},
		}
	}
	return out, nil
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 30, 0, 0, time.FixedZone("CET", 3600))
}

func TestNewStore_DefaultTable(t *testing.T) {
	s := NewStore(newFakeTable(), "")
	assert.Equal(t, DefaultTable, s.Table())

	s = NewStore(newFakeTable(), "uploads")
	assert.Equal(t, "uploads", s.Table())
}

func TestEnsureTable_CreatesMissingTable(t *testing.T) {
	fake := newFakeTable()
	s := NewStore(fake, "Images")

	created, err := s.EnsureTable(context.Background())
	require.NoError(t, err)
	assert.True(t, created)

	require.NotNil(t, fake.createInput)
	assert.Equal(t, "Images", aws.ToString(fake.createInput.TableName))
	require.Len(t, fake.createInput.KeySchema, 1)
	assert.Equal(t, AttrID, aws.ToString(fake.createInput.KeySchema[0].AttributeName))
	assert.Equal(t, types.KeyTypeHash, fake.createInput.KeySchema[0].KeyType)
	require.Len(t, fake.createInput.AttributeDefinitions, 1)
	assert.Equal(t, types.ScalarAttributeTypeS, fake.createInput.AttributeDefinitions[0].AttributeType)
	assert.Equal(t, types.BillingModePayPerRequest, fake.createInput.BillingMode)
	assert.Nil(t, fake.createInput.ProvisionedThroughput)
}

func TestEnsureTable_ExistingTable(t *testing.T) {
	for _, status := range []types.TableStatus{
		types.TableStatusActive,
		types.TableStatusCreating,
		types.TableStatusUpdating,
		types.TableStatusDeleting,
	} {
		t.Run(string(status), func(t *testing.T) {
			fake := newFakeTable()
			fake.exists = true
			fake.status = status

			created, err := NewStore(fake, "Images").EnsureTable(context.Background())
			require.NoError(t, err)
			assert.False(t, created)
			assert.Nil(t, fake.createInput)
		})
	}
}

func TestEnsureTable_Provisioned(t *testing.T) {
	fake := newFakeTable()
	s := NewStore(fake, "Images", WithBillingMode("provisioned"))

	_, err := s.EnsureTable(context.Background())
	require.NoError(t, err)

	require.NotNil(t, fake.createInput.ProvisionedThroughput)
	assert.Equal(t, types.BillingModeProvisioned, fake.createInput.BillingMode)
	assert.Equal(t, int64(1), aws.ToInt64(fake.createInput.ProvisionedThroughput.ReadCapacityUnits))
	assert.Equal(t, int64(1), aws.ToInt64(fake.createInput.ProvisionedThroughput.WriteCapacityUnits))
}

func TestEnsureTable_DescribeErrorPropagates(t *testing.T) {
	fake := newFakeTable()
	fake.describeErr = &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "denied"}

	created, err := NewStore(fake, "Images").EnsureTable(context.Background())
	require.Error(t, err)
	assert.False(t, created)
	assert.Nil(t, fake.createInput)

	var apiErr smithy.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "AccessDeniedException", apiErr.ErrorCode())
}

func TestEnsureTable_GenericNotFoundCode(t *testing.T) {
	fake := newFakeTable()
	fake.describeErr = &smithy.GenericAPIError{Code: "ResourceNotFoundException"}

	created, err := NewStore(fake, "Images").EnsureTable(context.Background())
	require.NoError(t, err)
	assert.True(t, created)
}

func TestEnsureTable_ConcurrentCreate(t *testing.T) {
	fake := newFakeTable()
	fake.createErr = &types.ResourceInUseException{Message: aws.String("Table already exists")}

	created, err := NewStore(fake, "Images").EnsureTable(context.Background())
	require.NoError(t, err)
	assert.False(t, created)
}

func TestEnsureTable_CreateError(t *testing.T) {
	fake := newFakeTable()
	fake.createErr = &types.LimitExceededException{Message: aws.String("too many tables")}

	_, err := NewStore(fake, "Images").EnsureTable(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating table Images")

	var limit *types.LimitExceededException
	assert.True(t, errors.As(err, &limit))
}

func TestEnsureTable_WaitForActive(t *testing.T) {
	fake := newFakeTable()
	s := NewStore(fake, "Images", WithWaitForActive(time.Minute))

	created, err := s.EnsureTable(context.Background())
	require.NoError(t, err)
	assert.True(t, created)
	// One describe before creating, one from the waiter.
	assert.Equal(t, 2, fake.describes)
}

func TestAddImage(t *testing.T) {
	fake := newFakeTable()
	s := NewStore(fake, "Images", WithClock(fixedClock))

	img, err := s.AddImage(context.Background(), "img-1", "cat.png", "https://up/cat", "s3://bucket/cat.png")
	require.NoError(t, err)

	assert.Equal(t, "img-1", img.ID)
	assert.Equal(t, time.UTC, img.CreatedAt.Location())
	assert.True(t, fixedClock().Equal(img.CreatedAt.Time))

	item := fake.items["img-1"]
	require.NotNil(t, item)
	assert.Equal(t, "cat.png", item[AttrName].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "https://up/cat", item[AttrUploadURL].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "s3://bucket/cat.png", item[AttrStorageURL].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "2024-03-01T11:30:00Z", item[AttrTimestamp].(*types.AttributeValueMemberS).Value)
}

func TestAddImage_EmptyID(t *testing.T) {
	fake := newFakeTable()
	s := NewStore(fake, "Images")

	for _, id := range []string{"", "   "} {
		_, err := s.AddImage(context.Background(), id, "a", "b", "c")
		assert.ErrorIs(t, err, ErrEmptyID)
	}
	assert.Empty(t, fake.items)
}

func TestAddImage_Overwrites(t *testing.T) {
	fake := newFakeTable()
	s := NewStore(fake, "Images", WithClock(fixedClock))
	ctx := context.Background()

	_, err := s.AddImage(ctx, "img-1", "first", "u1", "s1")
	require.NoError(t, err)
	_, err = s.AddImage(ctx, "img-1", "second", "u2", "s2")
	require.NoError(t, err)

	images, err := s.ListImages(ctx)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "second", images[0].Name)
}

func TestAddImage_PutError(t *testing.T) {
	fake := newFakeTable()
	fake.putErr = &types.ResourceNotFoundException{Message: aws.String("no table")}

	_, err := NewStore(fake, "Images").AddImage(context.Background(), "img-1", "a", "b", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "putting image img-1")
}

func TestListImages_Empty(t *testing.T) {
	images, err := NewStore(newFakeTable(), "Images").ListImages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestListImages_FollowsPages(t *testing.T) {
	fake := newFakeTable()
	fake.pageSize = 2
	s := NewStore(fake, "Images", WithClock(fixedClock))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.AddImage(ctx, fmt.Sprintf("img-%d", i), fmt.Sprintf("name-%d", i), "u", "s")
		require.NoError(t, err)
	}

	images, err := s.ListImages(ctx)
	require.NoError(t, err)
	assert.Len(t, images, 5)
	assert.Equal(t, 3, fake.scans)

	ids := make([]string, 0, len(images))
	for _, img := range images {
		ids = append(ids, img.ID)
		assert.True(t, fixedClock().Equal(img.CreatedAt.Time))
	}
	assert.ElementsMatch(t, []string{"img-0", "img-1", "img-2", "img-3", "img-4"}, ids)
}

func TestImage_AttributeNames(t *testing.T) {
	item, err := attributevalue.MarshalMap(Image{ID: "x", CreatedAt: NewTimestamp(fixedClock())})
	require.NoError(t, err)

	for _, name := range []string{AttrID, AttrName, AttrUploadURL, AttrStorageURL, AttrTimestamp} {
		assert.Contains(t, item, name)
	}
}

func TestListImages_LegacyTimestamp(t *testing.T) {
	fake := newFakeTable()
	legacy := func(id, ts string) map[string]types.AttributeValue {
		return map[string]types.AttributeValue{
			AttrID:         &types.AttributeValueMemberS{Value: id},
			AttrName:       &types.AttributeValueMemberS{Value: id + ".png"},
			AttrUploadURL:  &types.AttributeValueMemberS{Value: "u"},
			AttrStorageURL: &types.AttributeValueMemberS{Value: "s"},
			AttrTimestamp:  &types.AttributeValueMemberS{Value: ts},
		}
	}
	fake.items["micro"] = legacy("micro", "2019-05-01 12:34:56.789012")
	fake.items["seconds"] = legacy("seconds", "2019-05-01 12:34:56")
	fake.items["garbage"] = legacy("garbage", "last tuesday")

	images, err := NewStore(fake, "Images").ListImages(context.Background())
	require.NoError(t, err)
	require.Len(t, images, 3)

	byID := map[string]Image{}
	for _, img := range images {
		byID[img.ID] = img
	}
	assert.True(t, time.Date(2019, 5, 1, 12, 34, 56, 789012000, time.UTC).Equal(byID["micro"].CreatedAt.Time))
	assert.True(t, time.Date(2019, 5, 1, 12, 34, 56, 0, time.UTC).Equal(byID["seconds"].CreatedAt.Time))
	assert.True(t, byID["garbage"].CreatedAt.IsZero())
	assert.Equal(t, "last tuesday", byID["garbage"].CreatedAt.Raw)
	assert.Equal(t, "last tuesday", byID["garbage"].CreatedAt.String())
}
