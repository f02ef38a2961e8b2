package model

import (
	"encoding/json"
)

// ClientConfig is the configuration document stored for every client (tenant).
// Extra carries caller-supplied top-level keys; they are flattened next to the
// managed fields on the wire and in MongoDB.
type ClientConfig struct {
	ClientID      string          `json:"client_id" bson:"client_id"`
	ClientName    string          `json:"client_name" bson:"client_name"`
	OwnerID       string          `json:"owner_id" bson:"owner_id"`
	CreatedAt     Timestamp       `json:"created_at" bson:"created_at"`
	UpdatedAt     Timestamp       `json:"updated_at" bson:"updated_at"`
	MongoDB       MongoDBSettings `json:"mongodb" bson:"mongodb"`
	S3            S3Settings      `json:"s3" bson:"s3"`
	Agent         AgentSettings   `json:"agent" bson:"agent"`
	Preprocessor  ServiceEndpoint `json:"preprocessor" bson:"preprocessor"`
	Postprocessor ServiceEndpoint `json:"postprocessor" bson:"postprocessor"`
	OpenAI        *OpenAISettings `json:"openai,omitempty" bson:"openai,omitempty"`
	Extra         map[string]any  `json:"-" bson:",inline"`
}

// MongoDBSettings names the client's tenant database.
type MongoDBSettings struct {
	DatabaseName string `json:"database_name" bson:"database_name"`
}

// S3Settings locates the client's bucket.
type S3Settings struct {
	BucketName string `json:"bucket_name" bson:"bucket_name"`
	Region     string `json:"region" bson:"region"`
}

// AgentSettings configures the client's conversational agent.
type AgentSettings struct {
	SystemPrompt string           `json:"system_prompt" bson:"system_prompt"`
	LLMConfig    LLMConfig        `json:"llm_config" bson:"llm_config"`
	Tools        []map[string]any `json:"tools" bson:"tools"`
}

type LLMConfig struct {
	Model       string  `json:"model" bson:"model"`
	Temperature float64 `json:"temperature" bson:"temperature"`
}

type ServiceEndpoint struct {
	URL string `json:"url" bson:"url"`
}

type OpenAISettings struct {
	APIKey string `json:"api_key" bson:"api_key"`
}

// ReservedKeys lists the top-level keys owned by ClientConfig itself.
// Extra must never contain any of them.
var ReservedKeys = map[string]struct{}{
	"_id":           {},
	"client_id":     {},
	"client_name":   {},
	"owner_id":      {},
	"created_at":    {},
	"updated_at":    {},
	"mongodb":       {},
	"s3":            {},
	"agent":         {},
	"preprocessor":  {},
	"postprocessor": {},
	"openai":        {},
}

// IsReservedKey reports whether key is a managed top-level field.
func IsReservedKey(key string) bool {
	_, ok := ReservedKeys[key]
	return ok
}

// clientConfigAlias drops the methods of ClientConfig to avoid recursion.
type clientConfigAlias ClientConfig

// MarshalJSON flattens Extra into the top-level object. Managed fields win on collision.
func (c ClientConfig) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(clientConfigAlias(c))
	if err != nil {
		return nil, err
	}
	if len(c.Extra) == 0 {
		return base, nil
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(base, &out); err != nil {
		return nil, err
	}
	for k, v := range c.Extra {
		if IsReservedKey(k) {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[k] = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON collects unknown top-level keys into Extra.
func (c *ClientConfig) UnmarshalJSON(data []byte) error {
	var alias clientConfigAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k := range all {
		if IsReservedKey(k) {
			delete(all, k)
		}
	}
	if len(all) > 0 {
		alias.Extra = all
	} else {
		alias.Extra = nil
	}

	*c = ClientConfig(alias)
	return nil
}
