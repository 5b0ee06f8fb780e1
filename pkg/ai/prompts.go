package ai

// EntityExtractionPrompt asks for all medical entities in a text chunk,
// classified into the known entity types. Placeholders: entity type list,
// document text.
const EntityExtractionPrompt = `
请从以下医学文本中提取所有医学实体，并分类。实体类型包括：%s等。

医学文本：
%s

请以标准JSON格式输出结果，确保所有引号匹配、逗号使用正确：
{
    "entities": [
        {"name": "实体名称", "type": "实体类型"},
        ...
    ]
}

仅返回上述格式的JSON，不要添加任何额外说明。确保JSON格式正确无误。
`

// RelationAnalysisPrompt asks whether a directed relation holds between two
// entities, constrained to a candidate vocabulary. Placeholders: source name,
// source type, target name, target type, candidate relation types.
const RelationAnalysisPrompt = `从医学角度分析以下两个医学实体之间的关系：
源实体：%s（类型：%s）
目标实体：%s（类型：%s）

请确定这两个实体之间是否存在关系。如果存在，请指定关系类型并提供简短描述。
可能的关系类型包括：%s

请以JSON格式回答，格式如下：
[
  {
    "type": "关系类型",
    "description": "关系描述",
    "confidence": 0.9
  }
]

如果不存在关系，请返回空数组 []。
请确保JSON格式正确，使用双引号包围键和字符串值。
`

// QuestionEntityPrompt identifies the medical entities mentioned in a user
// question. Placeholders: entity type list, question.
const QuestionEntityPrompt = `
从以下医学问题中识别出所有相关的医学实体以及它们的类型。
实体类型包括: %s

问题: %s

输出格式 (JSON):
{
    "entities": [
        {"name": "实体名称", "type": "实体类型"},
        ...
    ]
}
`

// QuestionRelationPrompt identifies which relation types a user question asks
// about. Placeholders: relation type list, question.
const QuestionRelationPrompt = `
从以下医学问题中识别出所有相关的医学关系类型。
关系类型包括: %s

问题: %s

输出格式 (单个字符串数组):
["关系类型1", "关系类型2", ...]
`

// AnswerPrompt grounds the final answer in retrieved graph context.
// Placeholders: question, entity block, relation block.
const AnswerPrompt = `你是一个医学领域的AI助手，擅长回答与医学相关的问题。请基于以下从医学知识图谱中提取的信息来回答问题。

问题：%s

相关医学实体：
%s

相关医学关系：
%s

请提供准确、专业的医学回答，内容应当简明扼要且易于理解。如果知识图谱中的信息不足以回答问题，请基于你的医学知识提供答案，但明确指出哪些内容是基于知识图谱，哪些是基于模型知识。

回答：
`
