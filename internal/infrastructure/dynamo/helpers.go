package dynamo

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// attrEventID is the hash key of the dedup table.
const attrEventID = "eventId"

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// notExists returns a condition expression that holds only when no item with
// the given key attribute is stored.
func notExists(attr string) string {
	return "attribute_not_exists(" + attr + ")"
}
