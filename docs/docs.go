// Package docs 注册评分服务的 swagger 文档，由 handlers 中的注释整理而来
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/score": {
            "post": {
                "description": "校验线索信息，使用模型给出初始分，再按备注关键词重排，返回两个分数",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["评分"],
                "summary": "线索评分",
                "parameters": [
                    {
                        "description": "线索信息",
                        "name": "lead",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.LeadSubmission"}
                    }
                ],
                "responses": {
                    "200": {"description": "成功", "schema": {"$ref": "#/definitions/models.ScoreResponse"}},
                    "400": {"description": "参数错误", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "服务器错误", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "description": "返回模型特征维度和已记录线索数",
                "produces": ["application/json"],
                "tags": ["系统"],
                "summary": "健康检查",
                "responses": {
                    "200": {"description": "成功", "schema": {"$ref": "#/definitions/models.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.LeadSubmission": {
            "type": "object",
            "properties": {
                "phone_number": {"type": "string", "example": "+91-9876543210"},
                "email": {"type": "string", "example": "a@b.com"},
                "credit_score": {"type": "integer", "example": 720},
                "age_group": {"type": "string", "enum": ["18-25", "26-35", "36-50", "51+"], "example": "26-35"},
                "family_background": {"type": "string", "enum": ["Single", "Married", "Married with Kids"], "example": "Married"},
                "income": {"type": "integer", "example": 80000},
                "property_type": {"type": "string", "enum": ["Apartment", "Villa", "Plot", "Commercial"], "example": "Apartment"},
                "budget": {"type": "integer", "example": 5000000},
                "preferred_location": {"type": "string", "example": "Pune"},
                "comments": {"type": "string", "example": "Looking to move ASAP, finalizing soon"}
            }
        },
        "models.ScoreResponse": {
            "type": "object",
            "properties": {
                "initial_score": {"type": "number", "example": 63.27},
                "reranked_score": {"type": "number", "example": 83.27}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 1000},
                "message": {"type": "string", "example": "无效的参数"},
                "detail": {"type": "string", "example": "Invalid email or credit score"}
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "model_columns": {"type": "integer", "example": 24},
                "leads_recorded": {"type": "integer", "example": 3}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "线索评分服务 API",
	Description:      "基于梯度提升模型和关键词重排的销售线索评分服务",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
