package model

// Bucket provisioning outcomes.
const (
	BucketCreated = "created"
	BucketExists  = "exists"
	BucketError   = "error"
)

// BucketResult reports what happened when a client's bucket was provisioned.
// A failed provisioning is reported, not raised: the client is still created.
type BucketResult struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	BucketName string `json:"bucket_name"`
	Region     string `json:"region,omitempty"`
	ErrorCode  string `json:"error_code,omitempty"`
}
