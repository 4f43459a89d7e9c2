// Package docs 控制台接口的 OpenAPI 文档，由 gin-swagger 在 /swagger 下提供
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
        "/login": {
            "post": {
                "description": "调用后端登录接口，令牌写入服务端会话，响应原样返回后端 data",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["控制台"],
                "summary": "控制台登录",
                "parameters": [
                    {
                        "description": "请求参数",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/console.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["控制台"],
                "summary": "控制台注销",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["控制台"],
                "summary": "当前会话信息",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "未登录", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/routes.json": {
            "get": {
                "produces": ["application/json"],
                "tags": ["控制台"],
                "summary": "侧边栏菜单",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/version.json": {
            "get": {
                "produces": ["application/json"],
                "tags": ["控制台"],
                "summary": "构建版本信息",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/buildinfo.Info"}},
                    "404": {"description": "版本信息不存在", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/{path}": {
            "get": {
                "description": "转发到后端源站，按服务端会话补齐 Authorization、X-Tenant-Id、X-User-Id",
                "tags": ["控制台"],
                "summary": "后端 API 代理",
                "parameters": [
                    {"type": "string", "description": "后端 API 路径", "name": "path", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "后端原始响应"},
                    "502": {"description": "后端不可达", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/health": {
            "get": {"tags": ["运维"], "summary": "健康检查", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {
                "tags": ["运维"],
                "summary": "就绪检查",
                "responses": {"200": {"description": "ready"}, "503": {"description": "not ready"}}
            }
        }
    },
    "definitions": {
        "buildinfo.Info": {
            "type": "object",
            "properties": {
                "branch": {"type": "string"},
                "buildNumber": {"type": "string"},
                "buildTime": {"type": "string"},
                "commit": {"type": "string"}
            }
        },
        "console.LoginRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {
                "identifier": {"type": "string"},
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"},
                "success": {"type": "boolean"},
                "timestamp": {"type": "integer"},
                "traceId": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "EVCS Console",
	Description:      "充电运营管理控制台服务",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
