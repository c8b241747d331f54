package db

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamoDB struct {
	items   map[string]map[string]types.AttributeValue
	putErr  error
	lastPut *dynamodb.PutItemInput
}

func newFakeDynamoDB() *fakeDynamoDB {
	return &fakeDynamoDB{items: make(map[string]map[string]types.AttributeValue)}
}

func keyOf(key map[string]types.AttributeValue) string {
	return key[HISTORY_PARTITION_KEY].(*types.AttributeValueMemberS).Value
}

func (f *fakeDynamoDB) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[keyOf(in.Key)]}, nil
}

func (f *fakeDynamoDB) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.lastPut = in
	f.items[keyOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoDB) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	delete(f.items, keyOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestHistoryTableRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamoDB()
	table := NewHistoryTable(fake, "AnalysisHistory", "analysisHistory")

	data, err := table.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	payload := []byte(`[{"timestamp":"10:00:00 01/01/2024","text":"hi there","emotion":"joy"}]`)
	require.NoError(t, table.Save(ctx, payload))
	require.NotNil(t, fake.lastPut)
	assert.Equal(t, "AnalysisHistory", *fake.lastPut.TableName)

	data, err = table.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(data))

	require.NoError(t, table.Delete(ctx))
	data, err = table.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestHistoryTableSaveError(t *testing.T) {
	fake := newFakeDynamoDB()
	fake.putErr = errors.New("throttled")
	table := NewHistoryTable(fake, "AnalysisHistory", "analysisHistory")

	err := table.Save(context.Background(), []byte(`[]`))
	require.Error(t, err)
	assert.ErrorContains(t, err, "throttled")
}

func TestHistoryTableStoresHistoryAsString(t *testing.T) {
	fake := newFakeDynamoDB()
	table := NewHistoryTable(fake, "AnalysisHistory", "analysisHistory")

	payload := `[{"timestamp":"10:00:00 01/01/2024","text":"hi there","emotion":"joy","scores":{"joy":90}}]`
	require.NoError(t, table.Save(context.Background(), []byte(payload)))

	require.Len(t, fake.lastPut.Item, 3)
	history, ok := fake.lastPut.Item["history"].(*types.AttributeValueMemberS)
	require.True(t, ok, "history should be a string attribute")
	assert.Equal(t, payload, history.Value)
	assert.Contains(t, fake.lastPut.Item, "updated_at")
}
