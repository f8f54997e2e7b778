// Package images records metadata about uploaded images in a DynamoDB table.
//
// A Store performs independent remote calls and keeps no state between
// them. Records are only ever inserted (or overwritten by id) and read back
// through a full table scan.
package images

// Attribute names of an image item.
const (
	AttrID         = "ImageID"
	AttrName       = "ImageName"
	AttrUploadURL  = "UploadURL"
	AttrStorageURL = "S3URL"
	AttrTimestamp  = "Timestamp"
)

// DefaultTable is the table name used when none is configured.
const DefaultTable = "Images"

// Image is one metadata record.
type Image struct {
	ID         string    `dynamodbav:"ImageID" json:"id"`
	Name       string    `dynamodbav:"ImageName" json:"name"`
	UploadURL  string    `dynamodbav:"UploadURL" json:"upload_url"`
	StorageURL string    `dynamodbav:"S3URL" json:"storage_url"`
	CreatedAt  Timestamp `dynamodbav:"Timestamp" json:"created_at"`
}
