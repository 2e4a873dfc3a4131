package codegen

import (
	"fmt"
	"strings"
)

const indentUnit = "  "

// Declaration は TypeScript のトップレベル宣言を表す。
//
// String メソッドは指定されたインデントレベルで文字列表現を返す。
type Declaration interface {
	String(indent int) string
}

// EnumDecl は enum 宣言を表す。
//
// 例:
//
//	export enum Color {
//	  Red = 0,
//	  Green = 1,
//	}
type EnumDecl struct {
	Name    string
	Members []*EnumMember
}

// EnumMember は enum のメンバーを表す。
//
// 例: Red = 0
type EnumMember struct {
	Name  string
	Value int64
}

func (m *EnumMember) String(_ int) string {
	return fmt.Sprintf("%s = %d,", m.Name, m.Value)
}

// String は enum 宣言の文字列表現を返す。
func (e *EnumDecl) String(indent int) string {
	body := make([]Declaration, 0, len(e.Members))
	for _, m := range e.Members {
		body = append(body, m)
	}
	return block(fmt.Sprintf("export enum %s {", e.Name), body, indent)
}

// ClassDecl は class 宣言を表す。
//
// 例:
//
//	export class User {
//	  name: string;
//	  age: number | null;
//	}
type ClassDecl struct {
	Name       string
	Properties []*Property
}

// Property は class のプロパティを表す。
//
// 例: name: string;
type Property struct {
	Name string // 出力されるプロパティ名
	Type string // TypeScript の型
}

func (p *Property) String(_ int) string {
	return fmt.Sprintf("%s: %s;", p.Name, p.Type)
}

// String は class 宣言の文字列表現を返す。
func (c *ClassDecl) String(indent int) string {
	body := make([]Declaration, 0, len(c.Properties))
	for _, p := range c.Properties {
		body = append(body, p)
	}
	return block(fmt.Sprintf("export class %s {", c.Name), body, indent)
}

// block writes header, one line per body entry and a closing brace, each
// line terminated by a newline.
func block(header string, body []Declaration, indent int) string {
	var buf strings.Builder
	tabs := strings.Repeat(indentUnit, indent)

	buf.WriteString(tabs + header + "\n")
	for _, d := range body {
		buf.WriteString(tabs + indentUnit)
		buf.WriteString(d.String(indent + 1))
		buf.WriteString("\n")
	}
	buf.WriteString(tabs + "}\n")

	return buf.String()
}
