// Package docs registers the Swagger 2.0 description served under /swagger.
// Keep it in step with the handler annotations when routes change.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/comments": {
            "get": {
                "description": "Resolves the input, pages through all top-level comments and returns them with a summary.\nA session that fails after some pages answers 200 with complete=false and the error.",
                "produces": ["application/json"],
                "tags": ["comments"],
                "summary": "Retrieve the comments of a Douyin video",
                "parameters": [
                    {"type": "string", "description": "Link, share text or video ID", "name": "input", "in": "query", "required": true},
                    {"type": "integer", "description": "Stop after this many comments (0 = all)", "name": "max_comments", "in": "query"},
                    {"type": "integer", "description": "Resume from this cursor", "name": "cursor", "in": "query"},
                    {"type": "string", "description": "Douyin cookie, defaults to the server's DOUYIN_COOKIE", "name": "X-Douyin-Cookie", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CommentsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.HTTPError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.HTTPError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.HTTPError"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.HTTPError"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/models.HTTPError"}}
                }
            }
        },
        "/comments/analysis": {
            "get": {
                "description": "Retrieves the comments like /comments and returns the summary, the hourly trend and word cloud terms instead of the records",
                "produces": ["application/json"],
                "tags": ["comments"],
                "summary": "Analyse the comments of a Douyin video",
                "parameters": [
                    {"type": "string", "description": "Link, share text or video ID", "name": "input", "in": "query", "required": true},
                    {"type": "integer", "description": "Stop after this many comments (0 = all)", "name": "max_comments", "in": "query"},
                    {"type": "integer", "description": "Number of cloud terms (default 100)", "name": "top", "in": "query"},
                    {"type": "string", "description": "Douyin cookie, defaults to the server's DOUYIN_COOKIE", "name": "X-Douyin-Cookie", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AnalysisResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.HTTPError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.HTTPError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.HTTPError"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.HTTPError"}}
                }
            }
        },
        "/credential/verify": {
            "post": {
                "description": "Sends an unsigned probe to the comment endpoint. 200 means valid, 403 invalid, anything else is reported as 502.",
                "produces": ["application/json"],
                "tags": ["credential"],
                "summary": "Check a Douyin cookie",
                "parameters": [
                    {"type": "string", "description": "Douyin cookie", "name": "X-Douyin-Cookie", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CredentialResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.HTTPError"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.HTTPError"}}
                }
            }
        },
        "/resolve": {
            "get": {
                "description": "Accepts a share link (v.douyin.com, also inside share text), a video page URL, a modal_id URL or a bare ID",
                "produces": ["application/json"],
                "tags": ["resolve"],
                "summary": "Resolve a Douyin link to a video ID",
                "parameters": [
                    {"type": "string", "description": "Link, share text or video ID", "name": "input", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ResolveResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.HTTPError"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.HTTPError"}}
                }
            }
        }
    },
    "definitions": {
        "models.AnalysisResponse": {
            "type": "object",
            "properties": {
                "complete": {"type": "boolean"},
                "error": {"type": "string"},
                "summary": {"$ref": "#/definitions/models.Summary"},
                "terms": {"type": "array", "items": {"$ref": "#/definitions/models.CloudTerm"}},
                "trend": {"type": "array", "items": {"$ref": "#/definitions/models.TrendPoint"}},
                "video_id": {"type": "string"}
            }
        },
        "models.CloudTerm": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "size": {"type": "number"},
                "term": {"type": "string"}
            }
        },
        "models.Comment": {
            "type": "object",
            "properties": {
                "author": {"description": "Author display name", "type": "string"},
                "id": {"description": "Platform comment ID, empty when the server omitted it", "type": "string"},
                "likes": {"description": "Like count", "type": "integer"},
                "published_at": {"description": "Publish time rendered with TimestampLayout", "type": "string"},
                "replies": {"description": "Reply count", "type": "integer"},
                "text": {"description": "Comment text", "type": "string"},
                "timestamp": {"description": "Publish time as unix seconds", "type": "integer"}
            }
        },
        "models.CommentsResponse": {
            "type": "object",
            "properties": {
                "comments": {"type": "array", "items": {"$ref": "#/definitions/models.Comment"}},
                "complete": {"description": "Complete is true when the session stopped on an empty page or a zero cursor", "type": "boolean"},
                "error": {"description": "Error that ended the session early, empty when complete", "type": "string"},
                "has_more": {"description": "HasMore is the last has_more flag seen, informational only", "type": "boolean"},
                "next_cursor": {"description": "NextCursor is the cursor a resumed session should start from", "type": "integer"},
                "pages": {"type": "integer"},
                "session_id": {"type": "string"},
                "summary": {"$ref": "#/definitions/models.Summary"},
                "total": {"description": "Total declared by the server on the first page that carried one", "type": "integer"},
                "video_id": {"type": "string"}
            }
        },
        "models.CredentialResponse": {
            "type": "object",
            "properties": {
                "status": {"description": "valid or invalid", "type": "string"}
            }
        },
        "models.HTTPError": {
            "type": "object",
            "properties": {
                "code": {"description": "HTTP status code", "type": "integer"},
                "message": {"description": "Error message", "type": "string"}
            }
        },
        "models.ResolveResponse": {
            "type": "object",
            "properties": {
                "video_id": {"description": "Canonical numeric video ID", "type": "string"}
            }
        },
        "models.Summary": {
            "type": "object",
            "properties": {
                "avg_likes": {"type": "number"},
                "avg_replies": {"type": "number"},
                "count": {"type": "integer"},
                "earliest_time": {"description": "Earliest publish time, empty when there are no comments", "type": "string"},
                "latest_time": {"description": "Latest publish time, empty when there are no comments", "type": "string"},
                "total_likes": {"type": "integer"},
                "total_replies": {"type": "integer"}
            }
        },
        "models.TrendPoint": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "hour": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Douyin Comments API",
	Description:      "Resolves Douyin video links, verifies session cookies, retrieves the complete top-level comment list of a video and summarises it.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
